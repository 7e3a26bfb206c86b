package cache

import (
	"context"
	"fmt"

	platformconfig "github.com/socialfeed/api/internal/platform/config"
)

// NewSetCache builds the configured backend. It returns nil when caching is disabled.
func NewSetCache(ctx context.Context, config platformconfig.CacheConfig) (SetCache, error) {
	if !config.Enabled {
		return nil, nil
	}
	switch config.Backend {
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, config)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCacheType, config.Backend)
	}
}
