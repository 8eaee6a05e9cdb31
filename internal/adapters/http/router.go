package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/butterflyguide/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())
	app.Use(DeprecationMiddleware(deprecatedRoutes))

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Identification
	v1.Post("/identifications", timeout.NewWithContext(IdentifyHandler(deps), requestTimeout))
	v1.Post("/identifications/upload", timeout.NewWithContext(UploadHandler(deps), requestTimeout))
	v1.Get("/identifications", timeout.NewWithContext(ListIdentificationsHandler(deps), requestTimeout))
	v1.Get("/identifications/recent", timeout.NewWithContext(RecentIdentificationsHandler(deps), requestTimeout))
	v1.Get("/identify", timeout.NewWithContext(PreviewIdentifyHandler(deps), requestTimeout))

	// Species and migration
	v1.Get("/species", timeout.NewWithContext(ListSpeciesHandler(deps), requestTimeout))
	v1.Get("/species/:species", timeout.NewWithContext(GetSpeciesHandler(deps), requestTimeout))
	v1.Get("/species/:species/migration", timeout.NewWithContext(MigrationTimelineHandler(deps), requestTimeout))
	v1.Get("/species/:species/migration/:month", timeout.NewWithContext(MigrationWaypointHandler(deps), requestTimeout))

	// Quiz
	v1.Post("/quiz", timeout.NewWithContext(NewQuizHandler(deps), requestTimeout))
	v1.Post("/quiz/:id/answer", timeout.NewWithContext(AnswerQuizHandler(deps), requestTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket live feed of new identifications
	app.Use("/ws", func(c *fiber.Ctx) error {
		if deps.NATS == nil {
			return errUnavailable(c, "live feed requires NATS")
		}
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
