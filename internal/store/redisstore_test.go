package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := newTestRedisCache(t)

	got, err := cache.Load(ctx, "demo")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, cache.Save(ctx, "demo", samplePayload()))

	got, err = cache.Load(ctx, "demo")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "VT 1", got.CanHo["VT 1|VT"].MaCan)
	require.True(t, got.ChuNhaCanHo[0].IsPrimaryContact)

	require.NoError(t, cache.Clear(ctx, "demo"))
	got, err = cache.Load(ctx, "demo")
	require.NoError(t, err)
	require.Nil(t, got)
}
