package middleware

import (
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/itsDrac/authgate/pkg/config"
	"github.com/itsDrac/authgate/pkg/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hmacSecret = "hmac-secret"

func fixedVerifier(now time.Time) *HMACVerifier {
	v := NewHMACVerifier(hmacSecret, 5*time.Minute)
	v.now = func() time.Time { return now }
	return v
}

func signedRequest(method, target, body string, ts int64, secret string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, rdr)
	r.Header.Set(config.HMACSignatureHeader, signature.Header(secret, ts, method, r.URL.RequestURI(), []byte(body)))
	return r
}

func TestHMACValidSignature(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	r := signedRequest(http.MethodPost, "/api/v1/auth/login", `{"password":"p","emailAddress":"a@b.com"}`, now.UnixMilli(), hmacSecret)

	out, aerr := fixedVerifier(now).Check(r)
	require.Nil(t, aerr)

	// body is still readable downstream
	body, err := io.ReadAll(out.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"emailAddress":"a@b.com","password":"p"}`, string(body))
}

func TestHMACKeyOrderDoesNotMatter(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	ts := now.UnixMilli()
	r := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"b":1,"a":2}`))
	r.Header.Set(config.HMACSignatureHeader, signature.Header(hmacSecret, ts, http.MethodPost, "/x", []byte(`{"a":2,"b":1}`)))

	_, aerr := fixedVerifier(now).Check(r)
	assert.Nil(t, aerr)
}

func TestHMACEmptyBodySignsAsEmptyObject(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	ts := now.UnixMilli()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/user/me?x=1", nil)
	sig := signature.Sign(hmacSecret, strconv.FormatInt(ts, 10)+":GET:/api/v1/user/me?x=1:{}")
	r.Header.Set(config.HMACSignatureHeader, sig+"|"+strconv.FormatInt(ts, 10))

	_, aerr := fixedVerifier(now).Check(r)
	assert.Nil(t, aerr)
}

func TestHMACFreshness(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	v := fixedVerifier(now)

	tests := []struct {
		name   string
		offset time.Duration
		ok     bool
	}{
		{"exactly ttl old", -5 * time.Minute, true},
		{"just past ttl", -5*time.Minute - time.Millisecond, false},
		{"ten minutes old", -10 * time.Minute, false},
		{"slightly in future", 2 * time.Minute, true},
		{"far future", 6 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := now.Add(tt.offset).UnixMilli()
			r := signedRequest(http.MethodGet, "/me", "", ts, hmacSecret)

			_, aerr := v.Check(r)
			if tt.ok {
				assert.Nil(t, aerr)
				return
			}
			require.NotNil(t, aerr)
			assert.Equal(t, KindSignatureExpired, aerr.Kind)
			assert.Equal(t, MsgUnauthorized, aerr.Message)
		})
	}

	// timestamps far enough away that ms*time.Millisecond would wrap int64
	extremes := map[string]int64{
		"584 years old":     now.UnixMilli() - 18446744073710,
		"584 years ahead":   now.UnixMilli() + 18446744073710,
		"min int64":         math.MinInt64,
		"max int64":         math.MaxInt64,
		"negative epoch ms": -1,
	}
	for name, ts := range extremes {
		t.Run(name, func(t *testing.T) {
			r := signedRequest(http.MethodGet, "/me", "", ts, hmacSecret)

			_, aerr := v.Check(r)
			require.NotNil(t, aerr)
			assert.Equal(t, KindSignatureExpired, aerr.Kind)
		})
	}
}

func TestHMACRejections(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	valid := signature.Sign(hmacSecret, ts+":GET:/me:{}")

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"no delimiter", valid},
		{"empty signature", "|" + ts},
		{"empty timestamp", valid + "|"},
		{"extra parts", valid + "|" + ts + "|x"},
		{"non numeric timestamp", valid + "|abc"},
		{"wrong signature", strings.Repeat("0", 64) + "|" + ts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				r.Header.Set(config.HMACSignatureHeader, tt.header)
			}

			_, aerr := fixedVerifier(now).Check(r)
			require.NotNil(t, aerr)
			assert.Equal(t, KindUnauthorized, aerr.Kind)
			assert.Equal(t, MsgUnauthorized, aerr.Message)
		})
	}
}

func TestHMACTamperedRequest(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	ts := now.UnixMilli()

	t.Run("body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"a":2}`))
		r.Header.Set(config.HMACSignatureHeader, signature.Header(hmacSecret, ts, http.MethodPost, "/login", []byte(`{"a":1}`)))
		_, aerr := fixedVerifier(now).Check(r)
		require.NotNil(t, aerr)
	})

	t.Run("method", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPatch, "/login", nil)
		r.Header.Set(config.HMACSignatureHeader, signature.Header(hmacSecret, ts, http.MethodPost, "/login", nil))
		_, aerr := fixedVerifier(now).Check(r)
		require.NotNil(t, aerr)
	})

	t.Run("path", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/me?admin=1", nil)
		r.Header.Set(config.HMACSignatureHeader, signature.Header(hmacSecret, ts, http.MethodGet, "/me", nil))
		_, aerr := fixedVerifier(now).Check(r)
		require.NotNil(t, aerr)
	})

	t.Run("secret", func(t *testing.T) {
		r := signedRequest(http.MethodGet, "/me", "", ts, "other-secret")
		_, aerr := fixedVerifier(now).Check(r)
		require.NotNil(t, aerr)
	})
}

func TestHMACMissingSecretIsInternal(t *testing.T) {
	r := signedRequest(http.MethodGet, "/me", "", time.Now().UnixMilli(), hmacSecret)

	_, aerr := NewHMACVerifier("", time.Minute).Check(r)
	require.NotNil(t, aerr)
	assert.Equal(t, KindInternal, aerr.Kind)
}

func TestHMACBodyTooLarge(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	body := `{"blob":"` + strings.Repeat("a", maxSignedBody) + `"}`
	r := signedRequest(http.MethodPost, "/api/v1/auth/signup", body, now.UnixMilli(), hmacSecret)

	_, aerr := fixedVerifier(now).Check(r)
	require.NotNil(t, aerr)
	assert.Equal(t, KindBodyTooLarge, aerr.Kind)
	assert.Equal(t, http.StatusRequestEntityTooLarge, aerr.Status())
	assert.Equal(t, "PAYLOAD_TOO_LARGE", aerr.Code())
}

func TestHMACBodyAtLimit(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	body := `"` + strings.Repeat("a", maxSignedBody-2) + `"`
	r := signedRequest(http.MethodPost, "/x", body, now.UnixMilli(), hmacSecret)

	out, aerr := fixedVerifier(now).Check(r)
	require.Nil(t, aerr)
	restored, err := io.ReadAll(out.Body)
	require.NoError(t, err)
	assert.Len(t, restored, maxSignedBody)
}
