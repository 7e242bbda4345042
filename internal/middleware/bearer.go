package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, bearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(h, bearerPrefix)
	if token == "" || strings.ContainsRune(token, ' ') {
		return "", false
	}
	return token, true
}

// StaticBearer admits requests whose bearer token equals the shared
// BEARER_ACCESS_TOKEN.
type StaticBearer struct {
	token []byte
}

func NewStaticBearer(token string) *StaticBearer {
	return &StaticBearer{token: []byte(token)}
}

func (b *StaticBearer) Check(r *http.Request) (*http.Request, *AuthError) {
	if len(b.token) == 0 {
		return nil, unauthorized(MsgAccessDenied, errStaticBearerUnset)
	}
	token, ok := bearerToken(r)
	if !ok {
		return nil, unauthorized(MsgAccessDenied, errMissingBearer)
	}
	if subtle.ConstantTimeCompare([]byte(token), b.token) != 1 {
		return nil, unauthorized(MsgAccessDenied, errBearerMismatch)
	}
	return r, nil
}
