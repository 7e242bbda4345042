package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/itsDrac/authgate/pkg/config"
	"github.com/itsDrac/authgate/pkg/jwt"
)

// TokenValidator is the subset of jwt.JwtManager a JWT layer needs.
type TokenValidator func(token string) (*config.UserClaims, error)

// JWTAuth verifies a bearer JWT and attaches its claims to the request.
type JWTAuth struct {
	validate      TokenValidator
	cookieName    string
	enableCookies bool
}

// AuthorizeAccess builds the layer for routes guarded by an access token.
func AuthorizeAccess(jm jwt.JWTManager, enableCookies bool) *JWTAuth {
	return &JWTAuth{
		validate:      jm.ValidateAccessToken,
		cookieName:    config.AccessTokenCookieName,
		enableCookies: enableCookies,
	}
}

// AuthorizeRefresh builds the layer for the refresh-token route.
func AuthorizeRefresh(jm jwt.JWTManager, enableCookies bool) *JWTAuth {
	return &JWTAuth{
		validate:      jm.ValidateRefreshToken,
		cookieName:    config.RefreshTokenCookieName,
		enableCookies: enableCookies,
	}
}

func (j *JWTAuth) Check(r *http.Request) (*http.Request, *AuthError) {
	token, ok := bearerToken(r)
	if !ok {
		return nil, unauthorized(MsgUnauthorized, errMissingBearer)
	}

	if j.enableCookies {
		c, err := r.Cookie(j.cookieName)
		if err != nil || c.Value != token {
			return nil, unauthorized(MsgUnauthorized, errCookieMismatch)
		}
	}

	claims, err := j.validate(token)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, &AuthError{Kind: KindTokenExpired, Message: MsgTokenExpired, Err: err}
	case errors.Is(err, jwt.ErrMissingSecret):
		return nil, internal(err)
	default:
		return nil, unauthorized(MsgInvalidToken, err)
	}

	ctx := context.WithValue(r.Context(), config.UserClaimKey, claims)
	return r.WithContext(ctx), nil
}
