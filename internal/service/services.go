package service

import (
	"github.com/itsDrac/authgate/internal/repository"
	"github.com/itsDrac/authgate/pkg/logger"
)

type Services struct {
	UserService UserServicer
	AuthService AuthServicer
	Tokens      *TokenIssuer
}

func NewServices(store repository.UserStore, issuer *TokenIssuer, log *logger.Logger) (*Services, error) {
	authService, err := NewAuthService(store, issuer, log)
	if err != nil {
		return nil, err
	}

	userService, err := NewUserService(store, issuer, log)
	if err != nil {
		return nil, err
	}
	return &Services{
		UserService: userService,
		AuthService: authService,
		Tokens:      issuer,
	}, nil
}
