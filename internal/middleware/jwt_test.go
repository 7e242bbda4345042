package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itsDrac/authgate/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBearer(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestAuthorizeAccessAttachesClaims(t *testing.T) {
	jm := newTestJwtManager(time.Hour)
	token, err := jm.GenerateAccessToken(testClaims)
	require.NoError(t, err)

	r := withBearer(httptest.NewRequest(http.MethodGet, "/me", nil), token)
	out, aerr := AuthorizeAccess(jm, false).Check(r)
	require.Nil(t, aerr)

	claims, ok := config.ClaimsFromContext(out.Context())
	require.True(t, ok)
	assert.Equal(t, testClaims, *claims)
}

func TestAuthorizeAccessExpired(t *testing.T) {
	jm := newTestJwtManager(0)
	token, err := jm.GenerateAccessToken(testClaims)
	require.NoError(t, err)

	r := withBearer(httptest.NewRequest(http.MethodGet, "/me", nil), token)
	_, aerr := AuthorizeAccess(jm, false).Check(r)
	require.NotNil(t, aerr)
	assert.Equal(t, KindTokenExpired, aerr.Kind)
	assert.Equal(t, MsgTokenExpired, aerr.Message)
}

func TestAuthorizeAccessInvalid(t *testing.T) {
	jm := newTestJwtManager(time.Hour)
	refresh, err := jm.GenerateRefreshToken(testClaims)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"no header", "", MsgUnauthorized},
		{"wrong scheme", "Basic abc", MsgUnauthorized},
		{"lowercase scheme", "bearer " + refresh, MsgUnauthorized},
		{"garbage token", "Bearer not-a-jwt", MsgInvalidToken},
		{"refresh used as access", "Bearer " + refresh, MsgInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			_, aerr := AuthorizeAccess(jm, false).Check(r)
			require.NotNil(t, aerr)
			assert.Equal(t, KindUnauthorized, aerr.Kind)
			assert.Equal(t, tt.message, aerr.Message)
		})
	}
}

func TestAuthorizeRefresh(t *testing.T) {
	jm := newTestJwtManager(time.Hour)
	pair, err := jm.GenerateTokenPair(testClaims)
	require.NoError(t, err)

	r := withBearer(httptest.NewRequest(http.MethodGet, "/refresh-token", nil), pair.RefreshToken)
	_, aerr := AuthorizeRefresh(jm, false).Check(r)
	assert.Nil(t, aerr)

	r = withBearer(httptest.NewRequest(http.MethodGet, "/refresh-token", nil), pair.AccessToken)
	_, aerr = AuthorizeRefresh(jm, false).Check(r)
	require.NotNil(t, aerr)
	assert.Equal(t, MsgInvalidToken, aerr.Message)
}

func TestAuthorizeCookieCrossCheck(t *testing.T) {
	jm := newTestJwtManager(time.Hour)
	token, err := jm.GenerateAccessToken(testClaims)
	require.NoError(t, err)
	layer := AuthorizeAccess(jm, true)

	t.Run("missing cookie", func(t *testing.T) {
		r := withBearer(httptest.NewRequest(http.MethodGet, "/me", nil), token)
		_, aerr := layer.Check(r)
		require.NotNil(t, aerr)
		assert.Equal(t, MsgUnauthorized, aerr.Message)
	})

	t.Run("mismatched cookie", func(t *testing.T) {
		r := withBearer(httptest.NewRequest(http.MethodGet, "/me", nil), token)
		r.AddCookie(&http.Cookie{Name: config.AccessTokenCookieName, Value: "other"})
		_, aerr := layer.Check(r)
		require.NotNil(t, aerr)
	})

	t.Run("matching cookie", func(t *testing.T) {
		r := withBearer(httptest.NewRequest(http.MethodGet, "/me", nil), token)
		r.AddCookie(&http.Cookie{Name: config.AccessTokenCookieName, Value: token})
		_, aerr := layer.Check(r)
		assert.Nil(t, aerr)
	})
}

func TestRequireUserID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	_, aerr := RequireUserID.Check(r)
	require.NotNil(t, aerr)
	assert.Equal(t, MsgUserIDRequired, aerr.Message)

	empty := &config.UserClaims{}
	r = r.WithContext(contextWith(r, config.UserClaimKey, empty))
	_, aerr = RequireUserID.Check(r)
	require.NotNil(t, aerr)

	claims := testClaims
	r = r.WithContext(contextWith(r, config.UserClaimKey, &claims))
	_, aerr = RequireUserID.Check(r)
	assert.Nil(t, aerr)
}
