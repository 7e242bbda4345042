package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/itsDrac/authgate/internal/cache"
	"github.com/itsDrac/authgate/pkg/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Decision is a limiter's verdict for one request. Reset is the time until
// the budget is fully available again, or until the next request fits when
// the request was denied.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Duration
}

// Limiter decides whether one more request for key fits the budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// KeyExtractor is a function that extracts a unique key from the request
// for rate limiting purposes.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP address from the request.
// It handles X-Forwarded-For and X-Real-IP headers for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, _ := strings.Cut(xff, ","); strings.TrimSpace(first) != "" {
			return strings.TrimSpace(first)
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// RateLimit is the chain layer in front of a Limiter. Limiter failures
// are logged and the request is let through.
type RateLimit struct {
	limiter Limiter
	key     KeyExtractor
}

func NewRateLimit(l Limiter, key KeyExtractor) *RateLimit {
	if key == nil {
		key = IPKeyExtractor
	}
	return &RateLimit{limiter: l, key: key}
}

func (rl *RateLimit) Check(r *http.Request) (*http.Request, *AuthError) {
	key := rl.key(r)
	if key == "" {
		zap.S().Warnw("rate limit: unable to extract key, allowing request", "path", r.URL.Path)
		return r, nil
	}

	d, err := rl.limiter.Allow(r.Context(), key)
	if err != nil {
		zap.S().Warnw("rate limit: limiter unavailable, allowing request", "key", key, "error", err)
		return r, nil
	}
	setRateLimitHeaders(responseHeader(r), d)
	if !d.Allowed {
		return nil, &AuthError{
			Kind:       KindTooManyRequests,
			Message:    MsgTooManyRequests,
			RetryAfter: d.Reset,
		}
	}
	return r, nil
}

// setRateLimitHeaders writes the RateLimit-Limit/Remaining/Reset fields;
// Reset is in whole seconds, rounded up.
func setRateLimitHeaders(h http.Header, d Decision) {
	if h == nil {
		return
	}
	h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
	h.Set("RateLimit-Remaining", strconv.Itoa(max(d.Remaining, 0)))
	h.Set("RateLimit-Reset", strconv.Itoa(int((d.Reset+time.Second-1)/time.Second)))
}

// WindowCounter is the part of cache.Cacher a RedisLimiter needs.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error)
}

// RedisLimiter is a fixed-window counter shared across instances.
type RedisLimiter struct {
	cache    WindowCounter
	requests int64
	window   time.Duration
}

func NewRedisLimiter(c WindowCounter, cfg config.RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{cache: c, requests: int64(cfg.Requests), window: cfg.Window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	n, ttl, err := l.cache.IncrWindow(ctx, cache.RateLimitKeyPrefix+key, l.window)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Allowed:   n <= l.requests,
		Limit:     int(l.requests),
		Remaining: int(max(l.requests-n, 0)),
		Reset:     ttl,
	}, nil
}

// MemoryLimiter is a per-key token bucket for single-instance deployments.
type MemoryLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	rate        rate.Limit
	burst       int
	mu          sync.Mutex
	lastCleanup time.Time
}

func NewMemoryLimiter(cfg config.RateLimitConfig) *MemoryLimiter {
	return &MemoryLimiter{
		rate:        rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		burst:       cfg.Requests,
		lastCleanup: time.Now(),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	limiter := l.getLimiter(key)
	d := Decision{Limit: l.burst}

	if limiter.Allow() {
		tokens := limiter.Tokens()
		d.Allowed = true
		d.Remaining = int(tokens)
		d.Reset = time.Duration((float64(l.burst) - tokens) / float64(l.rate) * float64(time.Second))
		return d, nil
	}

	reservation := limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()
	d.Reset = max(delay, time.Second)
	return d, nil
}

func (l *MemoryLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(l.rate, l.burst)
	actual, _ := l.limiters.LoadOrStore(key, limiter)

	l.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket is full again, at most every 5 minutes.
func (l *MemoryLimiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) < 5*time.Minute {
		return
	}
	l.lastCleanup = time.Now()

	l.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(l.burst) {
			l.limiters.Delete(key)
		}
		return true
	})
}
