package posts

import (
	"github.com/gofiber/fiber/v2"

	"github.com/socialfeed/api/internal/identity"
	"github.com/socialfeed/api/internal/middleware/authjwt"
	"github.com/socialfeed/api/posts/handlers"
)

// PostsHandlers holds all the handlers this router needs.
type PostsHandlers struct {
	PostHandler *handlers.PostHandler
}

// RegisterRoutes is the single entry point for setting up posts routes.
// Reads accept an optional viewer; writes require one.
func RegisterRoutes(app fiber.Router, handlers *PostsHandlers, verifier identity.Verifier) {
	requireAuth := authjwt.New(authjwt.Config{Verifier: verifier})
	optionalAuth := authjwt.New(authjwt.Config{Verifier: verifier, Optional: true})

	group := app.Group("/posts")

	group.Post("/", requireAuth, handlers.PostHandler.CreatePost)
	group.Get("/", optionalAuth, handlers.PostHandler.ListFeed)

	// Registered before /:postId so "user" is not taken for a post id.
	group.Get("/user/:userId", optionalAuth, handlers.PostHandler.ListByUser)

	group.Get("/:postId", optionalAuth, handlers.PostHandler.GetPost)
	group.Post("/:postId/like", requireAuth, handlers.PostHandler.ToggleLike)
}
