package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/socialfeed/api/comments"
	"github.com/socialfeed/api/internal/cache"
	"github.com/socialfeed/api/internal/database/factory"
	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/utils"
	"github.com/socialfeed/api/internal/identity"
	"github.com/socialfeed/api/internal/middleware/requestid"
	"github.com/socialfeed/api/internal/pkg/log"
	platformconfig "github.com/socialfeed/api/internal/platform/config"
	"github.com/socialfeed/api/posts"
	"github.com/socialfeed/api/storage/provider"
	"github.com/socialfeed/api/users"
)

func main() {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		fatal("Failed to load platform config: %v", err)
	}
	log.SetDebug(cfg.Server.Debug)

	ctx := context.Background()

	store, err := factory.NewStoreFactory(cfg.Database).CreateStore(ctx)
	if err != nil {
		fatal("Failed to create %s store: %v", cfg.Database.Type, err)
	}
	defer store.Close()

	finder := utils.NewFinder(store, cfg.Query.IndexFallback)

	likedCache, err := cache.NewSetCache(ctx, cfg.Cache)
	if err != nil {
		fatal("Failed to create liked-state cache: %v", err)
	}

	verifier, err := newVerifier(ctx, cfg.Auth)
	if err != nil {
		fatal("Failed to create %s verifier: %v", cfg.Auth.Provider, err)
	}

	blobs, err := provider.NewBlobProvider(ctx, cfg.Storage)
	if err != nil {
		fatal("Failed to create %s blob provider: %v", cfg.Storage.Provider, err)
	}

	postsService := posts.NewPostService(store, finder, likedCache, cfg.Cache.TTL, blobs)
	commentsService := comments.NewCommentService(store, finder, posts.NewDirectCallAdapter(postsService), likedCache, cfg.Cache.TTL, blobs)
	usersService := users.NewUserService(store, blobs)
	log.Info("Services initialized (database=%s, storage=%s, auth=%s)", cfg.Database.Type, cfg.Storage.Provider, cfg.Auth.Provider)

	app := fiber.New(fiber.Config{
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			log.ErrorWithContext(c.UserContext(), "[ErrorHandler] Path: %s, Error: %v, Code: %d", c.Path(), err, code)

			// If response already set by handler, don't override it
			if len(c.Response().Body()) > 0 {
				return nil
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.WebDomain,
		AllowCredentials: cfg.Server.WebDomain != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, OPTIONS",
	}))

	router := fiber.Router(app)
	if cfg.Server.BaseRoute != "" {
		router = app.Group(cfg.Server.BaseRoute)
	}

	router.Get("/health", healthHandler(store))
	users.RegisterRoutes(router, users.NewHandlers(usersService), verifier)
	posts.RegisterRoutes(router, posts.NewHandlers(postsService), verifier)
	comments.RegisterRoutes(router, comments.NewHandlers(commentsService), verifier)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Info("Starting social feed API on %s", addr)
		if err := app.Listen(addr); err != nil {
			fatal("Server stopped: %v", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed: %v", err)
	}
}

func newVerifier(ctx context.Context, cfg platformconfig.AuthConfig) (identity.Verifier, error) {
	switch cfg.Provider {
	case "firebase":
		return identity.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	default:
		return identity.NewJWTVerifier(cfg.JWTPublicKey, cfg.ClaimKey)
	}
}

func healthHandler(store dbi.DocumentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

func fatal(format string, args ...interface{}) {
	log.Error(format, args...)
	os.Exit(1)
}
