package cache

import (
	"context"
	"errors"
	"time"
)

// SetCache stores string sets that are either complete or absent. A set is only
// reported as found when it was written with Replace and has not expired or been
// invalidated.
//
// Every key carries a generation that Add, Remove and Invalidate advance. A
// loader reads the generation before computing a set and passes it to Replace,
// which discards the set if a write happened in between.
type SetCache interface {
	// Members returns the members of key and whether a complete set is cached.
	Members(ctx context.Context, key string) ([]string, bool, error)

	// Generation returns key's current generation.
	Generation(ctx context.Context, key string) (int64, error)

	// Replace stores members as the complete set for key if key is still at
	// generation. It reports whether the set was stored.
	Replace(ctx context.Context, key string, members []string, ttl time.Duration, generation int64) (bool, error)

	// Add inserts member into key's set if a complete set is cached.
	Add(ctx context.Context, key, member string) error

	// Remove deletes member from key's set if a complete set is cached.
	Remove(ctx context.Context, key, member string) error

	// Invalidate drops key.
	Invalidate(ctx context.Context, key string) error

	Close() error
}

// Supported cache backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var (
	// ErrCacheUnavailable is returned when cache backend is unavailable
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrInvalidCacheType is returned when cache type is invalid
	ErrInvalidCacheType = errors.New("invalid cache type")
)

// completeMarker is stored alongside members so a set that lost its marker is
// never read as complete.
const completeMarker = "\x00complete"

// generationTTL bounds how long a key's generation outlives its last write.
const generationTTL = 24 * time.Hour
