package types

import (
	"strings"
	"time"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusPending UserStatus = "pending"
	UserStatusDeleted UserStatus = "deleted"
	UserStatusBlocked UserStatus = "blocked"
)

// User is the persisted user record.
type User struct {
	UserID       string     `json:"userId"`
	EmailAddress string     `json:"emailAddress"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName"`
	MiddleName   string     `json:"middleName,omitempty"`
	LastName     string     `json:"lastName"`
	Mobile       string     `json:"mobile"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// FullName joins the non-empty name parts with single spaces.
func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.MiddleName, u.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
