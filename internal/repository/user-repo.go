package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itsDrac/authgate/internal/db"
	"github.com/itsDrac/authgate/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// UserStore is the persistence collaborator for user records.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*types.User, error)
	FindUserByID(ctx context.Context, userID string) (*types.User, error)
	CreateUser(ctx context.Context, u *types.User) error
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
	// ListLegacyPasswords returns up to limit users whose stored password is
	// not a bcrypt hash, in insertion order, after skipping the first offset.
	ListLegacyPasswords(ctx context.Context, offset, limit int) ([]types.User, error)
	Ping(ctx context.Context) error
}

type UserRepo struct {
	db *db.DB
}

func NewUserRepo(db *db.DB) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

const userColumns = `
	u.user_id,
	u.email_address,
	u.password_hash,
	u.first_name,
	u.middle_name,
	u.last_name,
	u.mobile,
	u.status,
	u.created_at,
	u.updated_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var (
		u      types.User
		status string
	)
	err := row.Scan(
		&u.UserID,
		&u.EmailAddress,
		&u.PasswordHash,
		&u.FirstName,
		&u.MiddleName,
		&u.LastName,
		&u.Mobile,
		&status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.Status = types.UserStatus(status)
	return &u, nil
}

func (ur *UserRepo) FindUserByEmail(ctx context.Context, email string) (*types.User, error) {
	q := `SELECT` + userColumns + `
		FROM users u
		WHERE LOWER(u.email_address) = $1
		LIMIT 1;`

	return scanUser(ur.db.QueryRow(ctx, q, types.NormalizeEmail(email)))
}

func (ur *UserRepo) FindUserByID(ctx context.Context, userID string) (*types.User, error) {
	q := `SELECT` + userColumns + `
		FROM users u
		WHERE u.user_id = $1
		LIMIT 1;`

	return scanUser(ur.db.QueryRow(ctx, q, userID))
}

func (ur *UserRepo) CreateUser(ctx context.Context, u *types.User) error {
	const q = `
		INSERT INTO users (
			user_id,
			email_address,
			password_hash,
			first_name,
			middle_name,
			last_name,
			mobile,
			status,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at;
	`

	u.EmailAddress = types.NormalizeEmail(u.EmailAddress)
	if u.Status == "" {
		u.Status = types.UserStatusActive
	}

	err := ur.db.QueryRow(ctx, q,
		u.UserID,
		u.EmailAddress,
		u.PasswordHash,
		u.FirstName,
		u.MiddleName,
		u.LastName,
		u.Mobile,
		string(u.Status),
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (ur *UserRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	const q = `
		UPDATE users
		SET password_hash = $2, updated_at = $3
		WHERE user_id = $1;
	`

	tag, err := ur.db.Exec(ctx, q, userID, hash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (ur *UserRepo) ListLegacyPasswords(ctx context.Context, offset, limit int) ([]types.User, error) {
	q := `SELECT` + userColumns + `
		FROM users u
		WHERE u.password_hash !~ '^\$2[ayb]\$'
		ORDER BY u.id
		OFFSET $1
		LIMIT $2;`

	rows, cancel, err := ur.db.Query(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (ur *UserRepo) Ping(ctx context.Context) error {
	return ur.db.Ping(ctx)
}
