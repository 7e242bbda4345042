package service

import (
	"net/http"

	"github.com/itsDrac/authgate/internal/types"
	"github.com/itsDrac/authgate/pkg/config"
	"github.com/itsDrac/authgate/pkg/jwt"
)

// TokenIssuer mints tokens for a user and mirrors them into cookies when
// ENABLE_COOKIES is on.
type TokenIssuer struct {
	jm            jwt.JWTManager
	enableCookies bool
}

func NewTokenIssuer(jm jwt.JWTManager, enableCookies bool) *TokenIssuer {
	return &TokenIssuer{jm: jm, enableCookies: enableCookies}
}

// ClaimsFor is the identity snapshot embedded in a user's tokens.
func ClaimsFor(u *types.User) config.UserClaims {
	return config.UserClaims{
		UserID:       u.UserID,
		EmailAddress: u.EmailAddress,
		Name:         u.FullName(),
		Mobile:       u.Mobile,
	}
}

func (ti *TokenIssuer) IssuePair(u *types.User) (jwt.Tokens, error) {
	return ti.jm.GenerateTokenPair(ClaimsFor(u))
}

func (ti *TokenIssuer) IssueAccess(u *types.User) (string, error) {
	return ti.jm.GenerateAccessToken(ClaimsFor(u))
}

// SetCookies writes a cookie for each non-empty token. No-op when cookies
// are disabled.
func (ti *TokenIssuer) SetCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	if !ti.enableCookies {
		return
	}
	if accessToken != "" {
		setAuthCookie(w, config.AccessTokenCookieName, accessToken, int(ti.jm.AccessTTL().Seconds()))
	}
	if refreshToken != "" {
		setAuthCookie(w, config.RefreshTokenCookieName, refreshToken, int(ti.jm.RefreshTTL().Seconds()))
	}
}

func setAuthCookie(w http.ResponseWriter, name, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	})
}
