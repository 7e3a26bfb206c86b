package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	platformconfig "github.com/socialfeed/api/internal/platform/config"
)

// RedisCache implements SetCache with Redis sets
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache creates a new Redis cache instance and checks connectivity
func NewRedisCache(ctx context.Context, config platformconfig.CacheConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Redis.Address,
		Password:     config.Redis.Password,
		DB:           config.Redis.DB,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		MaxConnAge:   config.Redis.MaxConnAge,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	return NewRedisCacheWithClient(client, config.Prefix), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// updateIfComplete applies ARGV[2] (SADD or SREM) with ARGV[3] to the set at
// KEYS[1] only when the set carries the completeness marker ARGV[1], then
// advances the generation at KEYS[2] and refreshes its expiry (ARGV[4] seconds).
var updateIfComplete = redis.NewScript(`
if redis.call("SISMEMBER", KEYS[1], ARGV[1]) == 1 then
	redis.call(ARGV[2], KEYS[1], ARGV[3])
end
redis.call("INCR", KEYS[2])
redis.call("EXPIRE", KEYS[2], ARGV[4])
return 1
`)

// errStaleGeneration aborts a Replace whose generation has moved on.
var errStaleGeneration = errors.New("stale generation")

// setKey wraps key in a hash tag so the set and its generation share a slot.
func (r *RedisCache) setKey(key string) string {
	return r.prefix + "{" + key + "}"
}

func (r *RedisCache) generationKey(key string) string {
	return r.setKey(key) + ":gen"
}

// Members reads the whole set in one round trip.
func (r *RedisCache) Members(ctx context.Context, key string) ([]string, bool, error) {
	all, err := r.client.SMembers(ctx, r.setKey(key)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis smembers error: %w", err)
	}

	members := make([]string, 0, len(all))
	complete := false
	for _, m := range all {
		if m == completeMarker {
			complete = true
			continue
		}
		members = append(members, m)
	}
	if !complete {
		return nil, false, nil
	}
	return members, true, nil
}

func (r *RedisCache) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := r.client.Get(ctx, r.generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation error: %w", err)
	}
	return gen, nil
}

// Replace swaps the set in a MULTI/EXEC block guarded by WATCH on the
// generation key.
func (r *RedisCache) Replace(ctx context.Context, key string, members []string, ttl time.Duration, generation int64) (bool, error) {
	k := r.setKey(key)
	genKey := r.generationKey(key)
	values := make([]interface{}, 0, len(members)+1)
	values = append(values, completeMarker)
	for _, m := range members {
		values = append(values, m)
	}

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, k)
			pipe.SAdd(ctx, k, values...)
			if ttl > 0 {
				pipe.Expire(ctx, k, ttl)
			}
			return nil
		})
		return err
	}, genKey)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		return false, nil
	default:
		return false, fmt.Errorf("redis replace error: %w", err)
	}
}

// Add adds a member to a cached complete set.
func (r *RedisCache) Add(ctx context.Context, key, member string) error {
	if err := r.update(ctx, key, "SADD", member); err != nil {
		return fmt.Errorf("redis sadd error: %w", err)
	}
	return nil
}

// Remove removes a member from a cached complete set.
func (r *RedisCache) Remove(ctx context.Context, key, member string) error {
	if err := r.update(ctx, key, "SREM", member); err != nil {
		return fmt.Errorf("redis srem error: %w", err)
	}
	return nil
}

func (r *RedisCache) update(ctx context.Context, key, command, member string) error {
	keys := []string{r.setKey(key), r.generationKey(key)}
	return updateIfComplete.Run(ctx, r.client, keys, completeMarker, command, member, int(generationTTL.Seconds())).Err()
}

// Invalidate removes a key from Redis cache
func (r *RedisCache) Invalidate(ctx context.Context, key string) error {
	genKey := r.generationKey(key)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.setKey(key))
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete error: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
