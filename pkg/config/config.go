package config

import (
	"context"
	"fmt"
	"time"

	"github.com/itsDrac/authgate/pkg/utils"
	valid "github.com/itsDrac/authgate/pkg/validator"
)

const (
	// Token expiry defaults, in the "<n><s|m|h|d>" form used by the env vars.
	DefaultAccessTokenExpiry  = "1h"
	DefaultRefreshTokenExpiry = "7d"
	DefaultHMACExpiry         = "5m"

	// Cookie names mirroring issued tokens when cookies are enabled.
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"

	// Request header carrying "<signature>|<epoch-ms>".
	HMACSignatureHeader = "x-hmac-signature"
)

type contextKey string

// UserClaimKey is the request context key holding *UserClaims.
const UserClaimKey contextKey = "user_claims"

// UserClaims is the identity snapshot embedded in access and refresh tokens.
type UserClaims struct {
	UserID       string `json:"userId"`
	EmailAddress string `json:"emailAddress"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
}

// ClaimsFromContext returns the claims a JWT layer attached. A missing
// value and a typed nil pointer both report false.
func ClaimsFromContext(ctx context.Context) (*UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimKey).(*UserClaims)
	return claims, ok && claims != nil
}

// JWTConfig holds the secret/ttl pairs for both token kinds.
type JWTConfig struct {
	AccessTokenSecret  string        `validate:"required"`
	RefreshTokenSecret string        `validate:"required"`
	AccessTokenTTL     time.Duration `validate:"gt=0"`
	RefreshTokenTTL    time.Duration `validate:"gt=0"`
}

// RateLimitConfig is a fixed window of Requests per Window.
type RateLimitConfig struct {
	Requests int           `validate:"gt=0"`
	Window   time.Duration `validate:"gt=0"`
}

// Config is loaded once at startup and is read-only afterwards.
type Config struct {
	Environment string
	Host        string
	Port        string
	APIVersion  string
	WebsiteURL  string `validate:"omitempty,url"`

	DBDsn       string
	DBMigrate   bool
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	MigrationsP string

	BearerAccessToken string        `validate:"required"`
	HMACSecretKey     string        `validate:"required"`
	HMACTTL           time.Duration `validate:"gt=0"`
	EnableCookies     bool

	JWT       JWTConfig
	RateLimit RateLimitConfig
}

// Load reads the configuration from the environment and validates it.
// Missing secrets are reported as an error; the process should not start.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: utils.GetEnv("GO_ENV", "development"),
		Host:        utils.GetEnv("SERVER_HOST", "0.0.0.0"),
		Port:        utils.GetEnv("SERVER_PORT", "8080"),
		APIVersion:  utils.GetEnv("API_VERSION", "v1"),
		WebsiteURL:  utils.GetEnv("WEBSITE_URL", "http://localhost:5000/"),

		DBDsn:       utils.GetEnv("DB_DSN", ""),
		DBMigrate:   utils.GetBoolEnv("DB_MIGRATE", false),
		RedisAddr:   utils.GetEnv("REDIS_ADDR", ""),
		RedisPass:   utils.GetEnv("REDIS_PASSWORD", ""),
		RedisDB:     utils.GetIntEnv("REDIS_DB", 0),
		MigrationsP: utils.GetEnv("MIGRATIONS_PATH", "migrations"),

		BearerAccessToken: utils.GetEnv("BEARER_ACCESS_TOKEN", ""),
		HMACSecretKey:     utils.GetEnv("HMAC_SECRET_KEY", ""),
		HMACTTL:           utils.GetExpiryEnv("HMAC_TOKEN_EXPIRYIN", DefaultHMACExpiry),
		EnableCookies:     utils.GetBoolEnv("ENABLE_COOKIES", false),

		JWT: JWTConfig{
			AccessTokenSecret:  utils.GetEnv("ACCESS_TOKEN_SECRET", ""),
			RefreshTokenSecret: utils.GetEnv("REFRESH_TOKEN_SECRET", ""),
			AccessTokenTTL:     utils.GetExpiryEnv("ACCESS_TOKEN_EXPIRYIN", DefaultAccessTokenExpiry),
			RefreshTokenTTL:    utils.GetExpiryEnv("REFRESH_TOKEN_EXPIRYIN", DefaultRefreshTokenExpiry),
		},
		RateLimit: RateLimitConfig{
			Requests: utils.GetIntEnv("RATELIMIT_REQUESTS", 100),
			Window:   utils.GetExpiryEnv("RATELIMIT_WINDOW", "15m"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := valid.GetValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// APIBase is the route prefix, "/api/<version>" or "/api" without a version.
func (c *Config) APIBase() string {
	if c.APIVersion == "" {
		return "/api"
	}
	return "/api/" + c.APIVersion
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
