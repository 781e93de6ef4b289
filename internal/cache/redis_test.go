package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(rdb), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	_, ok, err := c.Get(ctx, "menu:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "menu:1", []byte(`{"title":"Lunch"}`)))
	val, ok, err := c.Get(ctx, "menu:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"title":"Lunch"}`, string(val))
	assert.Zero(t, mr.TTL("menu:1"))

	require.NoError(t, c.Delete(ctx, "menu:1", "menu:2"))
	require.NoError(t, c.Delete(ctx, "menu:1"))
	require.NoError(t, c.Delete(ctx))
	assert.False(t, mr.Exists("menu:1"))
}

func TestRedisCacheUnavailable(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)
	mr.Close()

	_, _, err := c.Get(ctx, "menu:1")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "menu:1", []byte("x")))
}
