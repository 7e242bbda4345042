package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itsDrac/authgate/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		assert.Equal(t, "192.168.1.1", IPKeyExtractor(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		assert.Equal(t, "10.0.0.1", IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", " 10.0.0.9 ")
		assert.Equal(t, "10.0.0.9", IPKeyExtractor(req))
	})
}

func TestMemoryLimiter(t *testing.T) {
	l := NewMemoryLimiter(config.RateLimitConfig{Requests: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "ip-a")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, 3, d.Limit)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "ip-a")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Zero(t, d.Remaining)
	assert.GreaterOrEqual(t, d.Reset, time.Second)

	// other keys have their own budget
	d, err = l.Allow(ctx, "ip-b")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

type stubLimiter struct {
	decision Decision
	err      error
}

func (s stubLimiter) Allow(context.Context, string) (Decision, error) {
	return s.decision, s.err
}

func TestRateLimitLayer(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	allow := Decision{Allowed: true, Limit: 100, Remaining: 99, Reset: 15 * time.Minute}
	deny := Decision{Limit: 100, Reset: 30 * time.Second}

	_, aerr := NewRateLimit(stubLimiter{decision: allow}, nil).Check(r)
	assert.Nil(t, aerr)

	_, aerr = NewRateLimit(stubLimiter{decision: deny}, nil).Check(r)
	require.NotNil(t, aerr)
	assert.Equal(t, KindTooManyRequests, aerr.Kind)
	assert.Equal(t, MsgTooManyRequests, aerr.Message)
	assert.Equal(t, 30*time.Second, aerr.RetryAfter)

	// limiter outages let traffic through
	_, aerr = NewRateLimit(stubLimiter{err: errors.New("redis down")}, nil).Check(r)
	assert.Nil(t, aerr)

	// no key, no limit
	_, aerr = NewRateLimit(stubLimiter{decision: deny}, func(*http.Request) string { return "" }).Check(r)
	assert.Nil(t, aerr)
}

func TestRateLimitHeaders(t *testing.T) {
	var reached bool

	t.Run("allowed", func(t *testing.T) {
		d := Decision{Allowed: true, Limit: 100, Remaining: 42, Reset: 90*time.Second + time.Millisecond}
		rec := httptest.NewRecorder()
		Chain(NewRateLimit(stubLimiter{decision: d}, nil)).Then(okHandler(&reached)).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, reached)
		assert.Equal(t, "100", rec.Header().Get("RateLimit-Limit"))
		assert.Equal(t, "42", rec.Header().Get("RateLimit-Remaining"))
		assert.Equal(t, "91", rec.Header().Get("RateLimit-Reset"))
		assert.Empty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("denied", func(t *testing.T) {
		d := Decision{Limit: 100, Reset: 30 * time.Second}
		rec := httptest.NewRecorder()
		Chain(NewRateLimit(stubLimiter{decision: d}, nil)).Then(okHandler(&reached)).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("RateLimit-Remaining"))
		assert.Equal(t, "30", rec.Header().Get("RateLimit-Reset"))
		assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	})
}

type countingCache struct {
	counts map[string]int64
}

func (c *countingCache) IncrWindow(_ context.Context, key string, ttl time.Duration) (int64, time.Duration, error) {
	c.counts[key]++
	return c.counts[key], ttl, nil
}

func TestRedisLimiterFixedWindow(t *testing.T) {
	c := &countingCache{counts: map[string]int64{}}
	l := NewRedisLimiter(c, config.RateLimitConfig{Requests: 2, Window: time.Minute})
	ctx := context.Background()

	d, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)

	d, _ = l.Allow(ctx, "k")
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d, _ = l.Allow(ctx, "k")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 2, d.Limit)
	assert.Equal(t, time.Minute, d.Reset)

	assert.EqualValues(t, 3, c.counts["ratelimit:k"])
}
