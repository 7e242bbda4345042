package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/itsDrac/authgate/pkg/config"
)

var (
	ErrTokenExpired  = errors.New("token has expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrMissingSecret = errors.New("jwt secret is not configured")
)

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// tokenClaims is the wire payload: {userToken, exp, iat, jti}.
type tokenClaims struct {
	UserToken *config.UserClaims `json:"userToken"`
	jwt.RegisteredClaims
}

// Issue signs claims with HS256 and an expiry of now+ttl.
func Issue(secret []byte, claims config.UserClaims, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrMissingSecret
	}

	now := time.Now()
	c := tokenClaims{
		UserToken: &claims,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature then expiry and returns the embedded user claims.
// A token whose signature does not verify is always ErrTokenInvalid, even
// when it is also past its expiry.
func Verify(secret []byte, tokenString string) (*config.UserClaims, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(0),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.UserToken == nil || claims.UserToken.UserID == "" {
		return nil, fmt.Errorf("%w: missing userToken", ErrTokenInvalid)
	}
	return claims.UserToken, nil
}

type JWTManager interface {
	GenerateAccessToken(claims config.UserClaims) (string, error)
	GenerateRefreshToken(claims config.UserClaims) (string, error)
	GenerateTokenPair(claims config.UserClaims) (Tokens, error)
	ValidateAccessToken(tokenString string) (*config.UserClaims, error)
	ValidateRefreshToken(tokenString string) (*config.UserClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// JwtManager binds the configured access and refresh secret/ttl pairs.
type JwtManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewJwtManager(cfg config.JWTConfig) (*JwtManager, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("JWT secrets must be set in environment: ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET: %w", ErrMissingSecret)
	}

	return &JwtManager{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}, nil
}

func (jm *JwtManager) AccessTTL() time.Duration  { return jm.accessTTL }
func (jm *JwtManager) RefreshTTL() time.Duration { return jm.refreshTTL }

func (jm *JwtManager) GenerateAccessToken(claims config.UserClaims) (string, error) {
	return Issue(jm.accessSecret, claims, jm.accessTTL)
}

func (jm *JwtManager) GenerateRefreshToken(claims config.UserClaims) (string, error) {
	return Issue(jm.refreshSecret, claims, jm.refreshTTL)
}

// GenerateTokenPair creates both an access token and a refresh token
func (jm *JwtManager) GenerateTokenPair(claims config.UserClaims) (Tokens, error) {
	access, err := jm.GenerateAccessToken(claims)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := jm.GenerateRefreshToken(claims)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateAccessToken verifies and returns the claims from an access token string.
func (jm *JwtManager) ValidateAccessToken(tokenString string) (*config.UserClaims, error) {
	return Verify(jm.accessSecret, tokenString)
}

// ValidateRefreshToken verifies and returns the claims from a refresh token string.
func (jm *JwtManager) ValidateRefreshToken(tokenString string) (*config.UserClaims, error) {
	return Verify(jm.refreshSecret, tokenString)
}
