package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformconfig "github.com/socialfeed/api/internal/platform/config"
)

// exerciseSetCache runs the behaviour every backend must share.
func exerciseSetCache(t *testing.T, c SetCache, key string) {
	ctx := context.Background()

	_, found, err := c.Members(ctx, key)
	require.NoError(t, err)
	assert.False(t, found, "nothing cached yet")

	gen, err := c.Generation(ctx, key)
	require.NoError(t, err)

	require.NoError(t, c.Add(ctx, key, "p1"))
	_, found, err = c.Members(ctx, key)
	require.NoError(t, err)
	assert.False(t, found, "add on a missing key does not create a set")

	stored, err := c.Replace(ctx, key, []string{"p2"}, time.Minute, gen)
	require.NoError(t, err)
	assert.False(t, stored, "a set loaded before a write is discarded")
	_, found, _ = c.Members(ctx, key)
	assert.False(t, found)

	gen, err = c.Generation(ctx, key)
	require.NoError(t, err)
	stored, err = c.Replace(ctx, key, []string{"p1", "p2"}, time.Minute, gen)
	require.NoError(t, err)
	assert.True(t, stored)
	members, found, err := c.Members(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.ElementsMatch(t, []string{"p1", "p2"}, members)

	require.NoError(t, c.Add(ctx, key, "p3"))
	require.NoError(t, c.Remove(ctx, key, "p1"))
	members, _, _ = c.Members(ctx, key)
	assert.ElementsMatch(t, []string{"p2", "p3"}, members)

	gen, _ = c.Generation(ctx, key)
	stored, err = c.Replace(ctx, key, nil, time.Minute, gen)
	require.NoError(t, err)
	assert.True(t, stored)
	members, found, _ = c.Members(ctx, key)
	assert.True(t, found)
	assert.Empty(t, members)

	gen, _ = c.Generation(ctx, key)
	require.NoError(t, c.Invalidate(ctx, key))
	_, found, _ = c.Members(ctx, key)
	assert.False(t, found)
	stored, err = c.Replace(ctx, key, []string{"p9"}, time.Minute, gen)
	require.NoError(t, err)
	assert.False(t, stored, "invalidate also advances the generation")
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	exerciseSetCache(t, c, "likes:u1")

	require.NoError(t, c.Remove(context.Background(), "likes:u2", "p1"))
	require.NoError(t, c.Add(context.Background(), "likes:u2", "p1"))
	assert.NotContains(t, c.entries, "likes:u2")
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	stored, err := c.Replace(ctx, "k", []string{"a"}, time.Second, 0)
	require.NoError(t, err)
	require.True(t, stored)
	_, found, _ := c.Members(ctx, "k")
	assert.True(t, found)

	now = now.Add(2 * time.Second)
	_, found, _ = c.Members(ctx, "k")
	assert.False(t, found)
}

func TestRedisCache(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Skipping test: Redis not available: %v", err)
	}
	prefix := "test:" + uuid.Must(uuid.NewV4()).String() + ":"
	c := NewRedisCacheWithClient(client, prefix)
	defer c.Close()

	exerciseSetCache(t, c, "likes:u1")

	ctx := context.Background()
	require.NoError(t, c.Add(ctx, "likes:u2", "p1"))
	exists, err := client.Exists(ctx, c.setKey("likes:u2")).Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "a toggle on an uncached viewer leaves no set behind")
	ttl, err := client.TTL(ctx, c.generationKey("likes:u2")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "generation keys expire")
}

func TestNewSetCache(t *testing.T) {
	ctx := context.Background()

	c, err := NewSetCache(ctx, platformconfig.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = NewSetCache(ctx, platformconfig.CacheConfig{Enabled: true, Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	_, err = NewSetCache(ctx, platformconfig.CacheConfig{Enabled: true, Backend: "memcached"})
	assert.ErrorIs(t, err, ErrInvalidCacheType)
}
