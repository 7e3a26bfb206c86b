package comments

import (
	"time"

	"github.com/socialfeed/api/comments/handlers"
	"github.com/socialfeed/api/comments/repository"
	"github.com/socialfeed/api/comments/services"
	"github.com/socialfeed/api/internal/cache"
	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/utils"
	"github.com/socialfeed/api/internal/likes"
	"github.com/socialfeed/api/internal/viewerstate"
	sharedInterfaces "github.com/socialfeed/api/shared/interfaces"
	"github.com/socialfeed/api/storage/provider"
)

// NewCommentService wires the comment service over store. posts is usually
// the posts package's direct call adapter. A nil likedCache reads the viewer's
// liked comments straight from the store.
func NewCommentService(store dbi.DocumentStore, finder *utils.Finder, posts sharedInterfaces.PostStatsUpdater, likedCache cache.SetCache, cacheTTL time.Duration, blobs provider.BlobProvider) services.CommentService {
	var source viewerstate.LikedSetSource = viewerstate.NewStoreSource(finder, repository.CollectionCommentLikes, "commentId")
	var observers []likes.Observer
	if likedCache != nil {
		cached := viewerstate.NewCachedSource(source, likedCache, "comment", cacheTTL)
		source = cached
		observers = append(observers, cached)
	}

	return services.NewCommentService(services.Dependencies{
		Store:         store,
		Comments:      repository.NewCommentRepository(store, finder),
		CommentLikes:  repository.NewCommentLikeRepository(store, finder),
		Posts:         posts,
		LikedSource:   source,
		Blobs:         blobs,
		LikeObservers: observers,
	})
}

// NewHandlers builds the route handlers for svc.
func NewHandlers(svc services.CommentService) *CommentsHandlers {
	return &CommentsHandlers{CommentHandler: handlers.NewCommentHandler(svc)}
}
