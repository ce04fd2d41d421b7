package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"conduit/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*JSONCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewJSONCache(client, ttl), mr
}

func TestJSONCache_SetGet(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	var got []entry
	hit, err := cache.Get(ctx, "tags", "10", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	want := []entry{{"go", 3}, {"web", 1}}
	require.NoError(t, cache.Set(ctx, "tags", "10", want))

	hit, err = cache.Get(ctx, "tags", "10", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)
}

func TestJSONCache_ExpiresAndInvalidates(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "tags", "10", []entry{{"go", 1}}))
	require.NoError(t, cache.Set(ctx, "tags", "5", []entry{{"go", 1}}))
	assert.Equal(t, time.Minute, mr.TTL("tags"))

	require.NoError(t, cache.Invalidate(ctx, "tags"))
	var got []entry
	hit, err := cache.Get(ctx, "tags", "5", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "tags", "10", []entry{{"go", 1}}))
	mr.FastForward(2 * time.Minute)
	hit, err = cache.Get(ctx, "tags", "10", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNewTagCache(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cache, closeFn, err := NewTagCache(&config.RedisConfig{Host: mr.Host(), Port: port, PoolSize: 2, TagTTL: 60})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k", "10", []entry{{Name: "go", Count: 1}}))
	assert.True(t, mr.Exists("k"))
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestNewTagCacheUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	host := mr.Host()
	mr.Close()

	_, _, err = NewTagCache(&config.RedisConfig{Host: host, Port: port, PoolSize: 1})
	assert.Error(t, err)
}
