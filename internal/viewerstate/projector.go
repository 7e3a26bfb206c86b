package viewerstate

import (
	"context"
	"fmt"
)

// Likeable is implemented by value types that carry a per-viewer liked flag.
type Likeable[T any] interface {
	LikeTargetID() string
	WithLiked(liked bool) T
}

// LikedSetSource returns the ids of every target the viewer has liked.
type LikedSetSource interface {
	LikedTargets(ctx context.Context, viewerID string) (map[string]struct{}, error)
}

// Annotate returns items in their original order with the liked flag set from
// the viewer's liked set. With no viewer every item is marked not liked and the
// source is not consulted.
func Annotate[T Likeable[T]](ctx context.Context, source LikedSetSource, viewerID string, items []T) ([]T, error) {
	out := make([]T, len(items))
	if viewerID == "" || len(items) == 0 {
		for i, item := range items {
			out[i] = item.WithLiked(false)
		}
		return out, nil
	}

	liked, err := source.LikedTargets(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load liked set: %w", err)
	}
	for i, item := range items {
		_, ok := liked[item.LikeTargetID()]
		out[i] = item.WithLiked(ok)
	}
	return out, nil
}

// AnnotateOne is Annotate for a single item.
func AnnotateOne[T Likeable[T]](ctx context.Context, source LikedSetSource, viewerID string, item T) (T, error) {
	out, err := Annotate(ctx, source, viewerID, []T{item})
	if err != nil {
		var zero T
		return zero, err
	}
	return out[0], nil
}
