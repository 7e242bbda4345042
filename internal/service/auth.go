package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/itsDrac/authgate/internal/model"
	"github.com/itsDrac/authgate/internal/repository"
	"github.com/itsDrac/authgate/internal/types"
	"github.com/itsDrac/authgate/pkg/logger"
	"github.com/itsDrac/authgate/pkg/utils"
)

const (
	userIDPrefix     = "usr"
	defaultFirstName = "User"
)

type AuthServicer interface {
	Signup(ctx context.Context, req model.SignupRequest) (Result[model.AuthResponse], error)
	Login(ctx context.Context, emailAddress, password string) (Result[model.AuthResponse], error)
}

type AuthService struct {
	store  repository.UserStore
	issuer *TokenIssuer
	log    *logger.Logger
}

func NewAuthService(store repository.UserStore, issuer *TokenIssuer, log *logger.Logger) (*AuthService, error) {
	if store == nil || issuer == nil {
		return nil, errors.New("failed to initialize AuthService: store and token issuer are required")
	}
	return &AuthService{
		store:  store,
		issuer: issuer,
		log:    log,
	}, nil
}

// Signup registers a new active user and issues a token pair.
func (as *AuthService) Signup(ctx context.Context, req model.SignupRequest) (Result[model.AuthResponse], error) {
	email := types.NormalizeEmail(req.EmailAddress)

	_, err := as.store.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return fail[model.AuthResponse](ErrUserExists), nil
	case !errors.Is(err, repository.ErrUserNotFound):
		return Result[model.AuthResponse]{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return fail[model.AuthResponse](ErrPasswordTooLong), nil
	}
	if err != nil {
		return Result[model.AuthResponse]{}, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := utils.GenerateShortSecureID(utils.DefaultIDLength, userIDPrefix)
	if err != nil {
		return Result[model.AuthResponse]{}, fmt.Errorf("generate user id: %w", err)
	}

	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		firstName = defaultFirstName
	}

	user := &types.User{
		UserID:       userID,
		EmailAddress: email,
		PasswordHash: hash,
		FirstName:    firstName,
		MiddleName:   strings.TrimSpace(req.MiddleName),
		LastName:     strings.TrimSpace(req.LastName),
		Mobile:       strings.TrimSpace(req.Mobile),
		Status:       types.UserStatusActive,
	}

	if err := as.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return fail[model.AuthResponse](ErrUserExists), nil
		}
		return Result[model.AuthResponse]{}, fmt.Errorf("Failed to create user: %w", err)
	}
	as.log.Infow("[AUTH] user registered", "user_id", user.UserID)

	resp, err := as.authResponse(user)
	if err != nil {
		return Result[model.AuthResponse]{}, err
	}
	return succeed("User saved successfully.", resp), nil
}

// Login never tells an unknown email apart from a wrong password.
func (as *AuthService) Login(ctx context.Context, emailAddress, password string) (Result[model.AuthResponse], error) {
	user, err := as.store.FindUserByEmail(ctx, emailAddress)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fail[model.AuthResponse](ErrInvalidCredentials), nil
		}
		return Result[model.AuthResponse]{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive() {
		as.log.Warnw("[AUTH] login for inactive user", "user_id", user.UserID, "status", user.Status)
		return fail[model.AuthResponse](ErrInvalidCredentials), nil
	}

	if err := utils.ComparePassword(password, user.PasswordHash); err != nil {
		return fail[model.AuthResponse](ErrInvalidCredentials), nil
	}

	resp, err := as.authResponse(user)
	if err != nil {
		return Result[model.AuthResponse]{}, err
	}
	return succeed("Login successful", resp), nil
}

func (as *AuthService) authResponse(u *types.User) (model.AuthResponse, error) {
	tokens, err := as.issuer.IssuePair(u)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return model.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         toUserResponse(u),
	}, nil
}

func toUserResponse(u *types.User) model.UserResponse {
	return model.UserResponse{
		UserID:       u.UserID,
		EmailAddress: u.EmailAddress,
		Name:         u.FullName(),
		Mobile:       u.Mobile,
	}
}
