package adapters

import (
	"context"

	"github.com/socialfeed/api/posts/services"
	sharedInterfaces "github.com/socialfeed/api/shared/interfaces"
)

// Ensure DirectCallStatsUpdater implements PostStatsUpdater interface
var _ sharedInterfaces.PostStatsUpdater = (*DirectCallStatsUpdater)(nil)

// DirectCallStatsUpdater implements PostStatsUpdater by calling the post
// service in process. Calls share the caller's context, so they join any
// store transaction the caller has open.
type DirectCallStatsUpdater struct {
	service services.PostService
}

// NewDirectCallStatsUpdater creates a new DirectCallStatsUpdater adapter.
func NewDirectCallStatsUpdater(svc services.PostService) *DirectCallStatsUpdater {
	return &DirectCallStatsUpdater{service: svc}
}

func (a *DirectCallStatsUpdater) EnsurePostExists(ctx context.Context, postID string) error {
	return a.service.EnsurePostExists(ctx, postID)
}

func (a *DirectCallStatsUpdater) IncrementCommentCountForService(ctx context.Context, postID string, delta int64) error {
	return a.service.IncrementCommentCountForService(ctx, postID, delta)
}
