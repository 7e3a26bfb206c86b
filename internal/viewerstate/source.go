package viewerstate

import (
	"context"
	"time"

	"github.com/socialfeed/api/internal/cache"
	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/utils"
	"github.com/socialfeed/api/internal/pkg/log"
)

// StoreSource reads like edges from a collection, e.g. likes keyed by postId.
type StoreSource struct {
	finder      *utils.Finder
	collection  string
	targetField string
}

// NewStoreSource creates a source reading collection where userId equals the viewer.
func NewStoreSource(finder *utils.Finder, collection, targetField string) *StoreSource {
	return &StoreSource{finder: finder, collection: collection, targetField: targetField}
}

func (s *StoreSource) LikedTargets(ctx context.Context, viewerID string) (map[string]struct{}, error) {
	docs, err := s.finder.Find(ctx, s.collection, dbi.Query{}.Where("userId", viewerID))
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if id, ok := doc[s.targetField].(string); ok {
			set[id] = struct{}{}
		}
	}
	return set, nil
}

// CachedSource keeps each viewer's liked set in a SetCache. Cache failures
// degrade to the inner source.
type CachedSource struct {
	inner LikedSetSource
	cache cache.SetCache
	kind  string
	ttl   time.Duration
}

// NewCachedSource wraps inner. kind namespaces keys, e.g. "post" or "comment".
func NewCachedSource(inner LikedSetSource, c cache.SetCache, kind string, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, cache: c, kind: kind, ttl: ttl}
}

func (s *CachedSource) key(viewerID string) string {
	return "liked:" + s.kind + ":" + viewerID
}

func (s *CachedSource) LikedTargets(ctx context.Context, viewerID string) (map[string]struct{}, error) {
	key := s.key(viewerID)
	members, found, err := s.cache.Members(ctx, key)
	if err != nil {
		log.WarnWithContext(ctx, "liked-set cache read failed: %s", err.Error())
	}
	if err == nil && found {
		set := make(map[string]struct{}, len(members))
		for _, m := range members {
			set[m] = struct{}{}
		}
		return set, nil
	}

	gen, genErr := s.cache.Generation(ctx, key)
	if genErr != nil {
		log.WarnWithContext(ctx, "liked-set cache generation read failed: %s", genErr.Error())
	}

	set, err := s.inner.LikedTargets(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return set, nil
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	// A toggle recorded while the set was loading makes it stale; the next read reloads.
	if _, err := s.cache.Replace(ctx, key, ids, s.ttl, gen); err != nil {
		log.WarnWithContext(ctx, "liked-set cache write failed: %s", err.Error())
	}
	return set, nil
}

// Record applies a toggle outcome to the cached set and advances its
// generation, so a load already in flight is not cached. If the update fails
// the entry is dropped so the next read reloads it.
func (s *CachedSource) Record(ctx context.Context, viewerID, targetID string, liked bool) {
	key := s.key(viewerID)
	var err error
	if liked {
		err = s.cache.Add(ctx, key, targetID)
	} else {
		err = s.cache.Remove(ctx, key, targetID)
	}
	if err != nil {
		log.WarnWithContext(ctx, "liked-set cache update failed, invalidating: %s", err.Error())
		_ = s.cache.Invalidate(ctx, key)
	}
}
