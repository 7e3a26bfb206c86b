package posts

import (
	"time"

	"github.com/socialfeed/api/internal/cache"
	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/utils"
	"github.com/socialfeed/api/internal/likes"
	"github.com/socialfeed/api/internal/viewerstate"
	"github.com/socialfeed/api/posts/handlers"
	"github.com/socialfeed/api/posts/internal/adapters"
	"github.com/socialfeed/api/posts/repository"
	"github.com/socialfeed/api/posts/services"
	sharedInterfaces "github.com/socialfeed/api/shared/interfaces"
	"github.com/socialfeed/api/storage/provider"
)

// NewPostService wires the post service over store. A nil likedCache reads the
// viewer's liked posts straight from the store.
func NewPostService(store dbi.DocumentStore, finder *utils.Finder, likedCache cache.SetCache, cacheTTL time.Duration, blobs provider.BlobProvider) services.PostService {
	var source viewerstate.LikedSetSource = viewerstate.NewStoreSource(finder, repository.CollectionLikes, "postId")
	var observers []likes.Observer
	if likedCache != nil {
		cached := viewerstate.NewCachedSource(source, likedCache, "post", cacheTTL)
		source = cached
		observers = append(observers, cached)
	}

	return services.NewPostService(services.Dependencies{
		Store:         store,
		Posts:         repository.NewPostRepository(store, finder),
		Likes:         repository.NewLikeRepository(store, finder),
		LikedSource:   source,
		Blobs:         blobs,
		LikeObservers: observers,
	})
}

// NewHandlers builds the route handlers for svc.
func NewHandlers(svc services.PostService) *PostsHandlers {
	return &PostsHandlers{PostHandler: handlers.NewPostHandler(svc)}
}

// NewDirectCallAdapter exposes svc to other domains in the same process.
func NewDirectCallAdapter(svc services.PostService) sharedInterfaces.PostStatsUpdater {
	return adapters.NewDirectCallStatsUpdater(svc)
}
