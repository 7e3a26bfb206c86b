package interfaces

import (
	"context"
	"errors"
)

// ErrPostNotFound is returned by PostStatsUpdater when the post does not exist.
var ErrPostNotFound = errors.New("post does not exist")

// PostStatsUpdater is the public interface other domains use to reach posts.
// Comments depend on it rather than on the posts service, and adapters in the
// posts package implement it.
type PostStatsUpdater interface {
	// EnsurePostExists returns ErrPostNotFound when postID is unknown.
	EnsurePostExists(ctx context.Context, postID string) error
	// IncrementCommentCountForService adjusts commentCount by +1 or -1.
	IncrementCommentCountForService(ctx context.Context, postID string, delta int64) error
}
