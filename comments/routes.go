package comments

import (
	"github.com/gofiber/fiber/v2"

	"github.com/socialfeed/api/comments/handlers"
	"github.com/socialfeed/api/internal/identity"
	"github.com/socialfeed/api/internal/middleware/authjwt"
)

// CommentsHandlers holds all the handlers this router needs.
type CommentsHandlers struct {
	CommentHandler *handlers.CommentHandler
}

// RegisterRoutes is the single entry point for setting up comment routes.
// Reads accept an optional viewer; writes require one.
func RegisterRoutes(app fiber.Router, handlers *CommentsHandlers, verifier identity.Verifier) {
	requireAuth := authjwt.New(authjwt.Config{Verifier: verifier})
	optionalAuth := authjwt.New(authjwt.Config{Verifier: verifier, Optional: true})

	group := app.Group("/comments")

	group.Post("/", requireAuth, handlers.CommentHandler.CreateComment)
	group.Get("/", optionalAuth, handlers.CommentHandler.ListComments)

	group.Get("/:commentId", optionalAuth, handlers.CommentHandler.GetComment)
	group.Post("/:commentId/replies", requireAuth, handlers.CommentHandler.CreateReply)
	group.Get("/:commentId/replies", optionalAuth, handlers.CommentHandler.ListReplies)
	group.Post("/:commentId/like", requireAuth, handlers.CommentHandler.ToggleLike)
}
