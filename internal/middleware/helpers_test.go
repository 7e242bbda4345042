package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/itsDrac/authgate/pkg/config"
	"github.com/itsDrac/authgate/pkg/jwt"
)

func contextWith(r *http.Request, key, val any) context.Context {
	return context.WithValue(r.Context(), key, val)
}

var testClaims = config.UserClaims{
	UserID:       "usr_abc123def456",
	EmailAddress: "a@b.com",
	Name:         "A B",
	Mobile:       "123",
}

func newTestJwtManager(accessTTL time.Duration) *jwt.JwtManager {
	jm, err := jwt.NewJwtManager(config.JWTConfig{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    24 * time.Hour,
	})
	if err != nil {
		panic(err)
	}
	return jm
}
