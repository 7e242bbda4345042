package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/itsDrac/authgate/internal/model"
	"github.com/itsDrac/authgate/internal/repository"
	"github.com/itsDrac/authgate/internal/types"
	"github.com/itsDrac/authgate/pkg/logger"
	"github.com/itsDrac/authgate/pkg/utils"
)

const DefaultRehashBatchSize = 1000

type UserServicer interface {
	GetUserByID(ctx context.Context, userID string) (*types.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (Result[bool], error)
	RegenerateAccessToken(ctx context.Context, userID string) (Result[model.AccessTokenResponse], error)
	RehashLegacyPasswords(ctx context.Context, batchSize int) (int, error)
	Ping(ctx context.Context) error
}

type UserService struct {
	store  repository.UserStore
	issuer *TokenIssuer
	log    *logger.Logger
}

func NewUserService(store repository.UserStore, issuer *TokenIssuer, log *logger.Logger) (*UserService, error) {
	if store == nil || issuer == nil {
		return nil, errors.New("failed to initialize UserService: store and token issuer are required")
	}
	return &UserService{
		store:  store,
		issuer: issuer,
		log:    log,
	}, nil
}

func (us *UserService) GetUserByID(ctx context.Context, userID string) (*types.User, error) {
	if userID == "" {
		return nil, ErrIDMissing
	}
	user, err := us.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the stored hash after checking the old password.
// The user id always comes from verified token claims.
func (us *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (Result[bool], error) {
	user, err := us.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrIDMissing) {
			return fail[bool](ErrUserNotFound), nil
		}
		return Result[bool]{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := utils.ComparePassword(oldPassword, user.PasswordHash); err != nil {
		return fail[bool](ErrOldPasswordIncorrect), nil
	}

	hash, err := utils.HashPassword(newPassword)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return fail[bool](ErrPasswordTooLong), nil
	}
	if err != nil {
		return Result[bool]{}, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := us.store.UpdatePasswordHash(ctx, user.UserID, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fail[bool](ErrUserNotFound), nil
		}
		return Result[bool]{}, fmt.Errorf("update password: %w", err)
	}
	us.log.Infow("[USER] password changed", "user_id", user.UserID)

	return succeed("Password changed successfully.", true), nil
}

// RegenerateAccessToken mints a fresh access token from the stored record,
// so profile changes since login are reflected.
func (us *UserService) RegenerateAccessToken(ctx context.Context, userID string) (Result[model.AccessTokenResponse], error) {
	user, err := us.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrIDMissing) {
			return fail[model.AccessTokenResponse](ErrUserNotFound), nil
		}
		return Result[model.AccessTokenResponse]{}, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive() {
		return fail[model.AccessTokenResponse](ErrUserNotFound), nil
	}

	token, err := us.issuer.IssueAccess(user)
	if err != nil {
		return Result[model.AccessTokenResponse]{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return succeed("Access token regenerated successfully", model.AccessTokenResponse{AccessToken: token}), nil
}

// RehashLegacyPasswords bcrypt-hashes every stored password that is not
// already a bcrypt hash, batchSize users at a time. Plaintexts bcrypt cannot
// take are logged and left in place. It returns how many users were updated.
func (us *UserService) RehashLegacyPasswords(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultRehashBatchSize
	}

	total, skipped := 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		// skipped rows stay legacy and sort first, so step over them
		users, err := us.store.ListLegacyPasswords(ctx, skipped, batchSize)
		if err != nil {
			return total, fmt.Errorf("list legacy passwords: %w", err)
		}
		if len(users) == 0 {
			break
		}

		for _, u := range users {
			hash, err := utils.HashPassword(u.PasswordHash)
			if errors.Is(err, utils.ErrPasswordTooLong) {
				us.log.Warnw("[USER] legacy password too long to rehash, skipping", "user_id", u.UserID)
				skipped++
				continue
			}
			if err != nil {
				return total, fmt.Errorf("hash password for %s: %w", u.UserID, err)
			}
			if err := us.store.UpdatePasswordHash(ctx, u.UserID, hash); err != nil {
				return total, fmt.Errorf("update password for %s: %w", u.UserID, err)
			}
			total++
		}
		us.log.Infow("[USER] rehashed batch", "batch", len(users), "total", total, "skipped", skipped)
	}
	return total, nil
}

func (us *UserService) Ping(ctx context.Context) error {
	return us.store.Ping(ctx)
}
