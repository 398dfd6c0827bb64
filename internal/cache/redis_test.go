package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/accounts-service/internal/config"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		RedisAddress: mr.Addr(),
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestIncrAndCount(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	n, err := cache.Count(ctx, "counter")
	require.NoError(t, err)
	assert.Zero(t, n)

	for i := int64(1); i <= 3; i++ {
		n, err = cache.Incr(ctx, "counter", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	n, err = cache.Count(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, time.Minute, mr.TTL("counter"))
}

func TestIncrKeepsFirstTTL(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	_, err := cache.Incr(ctx, "counter", time.Minute)
	require.NoError(t, err)
	mr.FastForward(40 * time.Second)

	_, err = cache.Incr(ctx, "counter", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, mr.TTL("counter"))

	mr.FastForward(21 * time.Second)
	n, err := cache.Count(ctx, "counter")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInvalidate(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	_, err := cache.Incr(ctx, "key", time.Minute)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx, "key"))

	n, err := cache.Count(ctx, "key")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCountNotANumber(t *testing.T) {
	cache, mr := setupTestCache(t)
	require.NoError(t, mr.Set("bad", "not-a-number"))

	_, err := cache.Count(context.Background(), "bad")
	assert.Error(t, err)
}

func TestInitServerInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		RedisAddress:     "127.0.0.1:1",
		RedisDialTimeout: 200 * time.Millisecond,
	}

	cache, err := InitServer(context.Background(), cfg)
	assert.Nil(t, cache)
	assert.Error(t, err)
}
