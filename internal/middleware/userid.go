package middleware

import (
	"net/http"

	"github.com/itsDrac/authgate/pkg/config"
)

// RequireUserID rejects requests whose claims carry no user id.
var RequireUserID Layer = LayerFunc(func(r *http.Request) (*http.Request, *AuthError) {
	claims, ok := config.ClaimsFromContext(r.Context())
	if !ok || claims.UserID == "" {
		return nil, unauthorized(MsgUserIDRequired, errMissingClaims)
	}
	return r, nil
})
