package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/trendyol-sp/internal/cache"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *cache.RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	s := cache.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = s.Close()
	})
	return mr, s
}

func TestRedisStore_GetSet(t *testing.T) {
	t.Parallel()

	mr, s := setupRedis(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "trendyol_GET_/brands")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "trendyol_GET_/brands", []byte(`{"brands":[]}`), time.Hour))

	got, ok, err := s.Get(ctx, "trendyol_GET_/brands")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"brands":[]}`, string(got))

	assert.Equal(t, time.Hour, mr.TTL("trendyol_GET_/brands"))
}

func TestRedisStore_Expiry(t *testing.T) {
	t.Parallel()

	mr, s := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("1"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_Delete(t *testing.T) {
	t.Parallel()

	_, s := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("1"), time.Minute))
	require.NoError(t, s.Delete(ctx, "k"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ZeroTTL(t *testing.T) {
	t.Parallel()

	mr, s := setupRedis(t)

	require.NoError(t, s.Set(context.Background(), "k", []byte("1"), 0))
	assert.False(t, mr.Exists("k"))
}

func TestRedisStore_ServerDown(t *testing.T) {
	t.Parallel()

	mr, s := setupRedis(t)
	mr.Close()

	_, _, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis get")
}
