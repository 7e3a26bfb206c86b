package users

import (
	"github.com/gofiber/fiber/v2"

	"github.com/socialfeed/api/internal/identity"
	"github.com/socialfeed/api/internal/middleware/authjwt"
	"github.com/socialfeed/api/users/handlers"
)

// UsersHandlers holds all the handlers this router needs.
type UsersHandlers struct {
	UserHandler *handlers.UserHandler
}

// RegisterRoutes is the single entry point for setting up user routes.
func RegisterRoutes(app fiber.Router, handlers *UsersHandlers, verifier identity.Verifier) {
	requireAuth := authjwt.New(authjwt.Config{Verifier: verifier})
	optionalAuth := authjwt.New(authjwt.Config{Verifier: verifier, Optional: true})

	group := app.Group("/users")

	group.Get("/me", requireAuth, handlers.UserHandler.ReadMyProfile)
	group.Put("/me", requireAuth, handlers.UserHandler.UpdateProfile)
	group.Get("/:userId", optionalAuth, handlers.UserHandler.ReadProfile)
}
