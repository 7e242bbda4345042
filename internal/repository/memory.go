package repository

import (
	"context"
	"sync"
	"time"

	"github.com/itsDrac/authgate/internal/types"
	"github.com/itsDrac/authgate/pkg/utils"
)

// MemoryUserStore keeps users in process memory. Used when no DB_DSN is
// configured and in tests.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]*types.User
	byEmail map[string]string
	seq     []string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]*types.User),
		byEmail: make(map[string]string),
	}
}

func (m *MemoryUserStore) FindUserByEmail(_ context.Context, email string) (*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[types.NormalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := *m.byID[id]
	return &u, nil
}

func (m *MemoryUserStore) FindUserByID(_ context.Context, userID string) (*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byID[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryUserStore) CreateUser(_ context.Context, u *types.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.EmailAddress = types.NormalizeEmail(u.EmailAddress)
	if _, exists := m.byEmail[u.EmailAddress]; exists {
		return ErrDuplicateEmail
	}
	if u.Status == "" {
		u.Status = types.UserStatusActive
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	cp := *u
	m.byID[u.UserID] = &cp
	m.byEmail[u.EmailAddress] = u.UserID
	m.seq = append(m.seq, u.UserID)
	return nil
}

func (m *MemoryUserStore) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryUserStore) ListLegacyPasswords(_ context.Context, offset, limit int) ([]types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []types.User
	for _, id := range m.seq {
		if limit > 0 && len(out) >= limit {
			break
		}
		u := m.byID[id]
		if utils.IsPasswordHashed(u.PasswordHash) {
			continue
		}
		if offset > 0 {
			offset--
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (m *MemoryUserStore) Ping(context.Context) error {
	return nil
}
