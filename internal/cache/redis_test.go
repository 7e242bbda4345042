package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T) *RedisCache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	c, err := NewRedisClient(ctx, Options{Addr: host + ":" + port.Port()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewRedisClientRequiresAddr(t *testing.T) {
	_, err := NewRedisClient(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrMissingAddr)
}

func TestRedisCacheIncrWindow(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()
	key := RateLimitKeyPrefix + "127.0.0.1"

	n, ttl, err := c.IncrWindow(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	n, _, err = c.IncrWindow(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// a fresh key gets its own window
	n, _, err = c.IncrWindow(ctx, RateLimitKeyPrefix+"10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRedisCacheIncrWindowRejectsZeroTTL(t *testing.T) {
	c := setupRedis(t)

	_, _, err := c.IncrWindow(context.Background(), RateLimitKeyPrefix+"x", 0)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}
