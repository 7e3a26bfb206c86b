package authjwt

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/socialfeed/api/internal/identity"
	"github.com/socialfeed/api/internal/pkg/log"
	"github.com/socialfeed/api/internal/types"
)

// Config defines the config for the auth middleware.
type Config struct {
	// Verifier resolves tokens into a UserContext.
	Verifier identity.Verifier
	// Optional lets requests without a token through with no viewer attached.
	// A token that is present but invalid is still rejected.
	Optional bool
}

// New creates a new middleware handler.
func New(cfg Config) fiber.Handler {
	if cfg.Verifier == nil {
		panic("authjwt: Verifier is required")
	}

	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			if cfg.Optional {
				return c.Next()
			}
			return unauthorized(c, "Missing or invalid token", "")
		}

		user, err := cfg.Verifier.Verify(c.UserContext(), tokenString)
		if err != nil {
			log.WarnWithContext(c.UserContext(), "token rejected: %s", err.Error())
			return unauthorized(c, "Invalid token", err.Error())
		}

		c.Locals(types.UserCtxName, user)
		return c.Next()
	}
}

// extractToken reads the Authorization header first (mobile/API clients) and
// falls back to the access_token cookie (browsers).
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get(types.HeaderAuthorization)
	if strings.HasPrefix(authHeader, types.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, types.BearerPrefix))
	}
	return c.Cookies(types.AccessTokenCookie)
}

func unauthorized(c *fiber.Ctx, message, details string) error {
	body := fiber.Map{
		"code":    "NOT_AUTHENTICATED",
		"message": message,
	}
	if details != "" {
		body["details"] = details
	}
	return c.Status(fiber.StatusUnauthorized).JSON(body)
}

// Viewer returns the user New stored under types.UserCtxName, if any.
func Viewer(c *fiber.Ctx) (types.UserContext, bool) {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok || user.IsAnonymous() {
		return types.UserContext{}, false
	}
	return user, true
}
