package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidTTL  = errors.New("cache: ttl must be > 0")
	ErrMissingAddr = errors.New("REDIS_ADDR is required")
)

const RateLimitKeyPrefix = "ratelimit:"

// Cacher is the shared counter store behind the distributed rate limiter.
type Cacher interface {
	// IncrWindow bumps the counter at key, starting a window of length ttl
	// on first use, and returns the new count and the window's remaining time.
	IncrWindow(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error)
	Ping(ctx context.Context) error
	Close() error
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisClient(ctx context.Context, opts Options) (*RedisCache, error) {
	if opts.Addr == "" {
		return nil, ErrMissingAddr
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     50,
		MinIdleConns: 10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

func (r *RedisCache) IncrWindow(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error) {
	if ttl <= 0 {
		return 0, 0, ErrInvalidTTL
	}

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// NX keeps the window anchored at the first hit.
	pipe.ExpireNX(ctx, key, ttl)
	pttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	remaining := pttl.Val()
	if remaining < 0 {
		remaining = ttl
	}
	return incr.Val(), remaining, nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
