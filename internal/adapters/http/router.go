package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/agrivision/backend/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout; analysis and quality endpoints
	// proxy model inference and get a longer one.
	v1 := app.Group("/v1")
	auth := AuthMiddleware(deps.Auth)
	optional := OptionalAuthMiddleware(deps.Auth)

	// Auth
	v1.Post("/auth/register", timeout.NewWithContext(RegisterHandler(deps), 15*time.Second))
	v1.Post("/auth/login", timeout.NewWithContext(LoginHandler(deps), 15*time.Second))
	v1.Get("/auth/me", auth, timeout.NewWithContext(MeHandler(deps), 15*time.Second))

	// Fields
	v1.Post("/fields", optional, timeout.NewWithContext(CreateFieldHandler(deps), 15*time.Second))
	v1.Get("/fields", optional, timeout.NewWithContext(ListFieldsHandler(deps), 15*time.Second))
	v1.Get("/fields/:id", timeout.NewWithContext(GetFieldHandler(deps), 15*time.Second))
	v1.Put("/fields/:id", optional, timeout.NewWithContext(UpdateFieldHandler(deps), 15*time.Second))
	v1.Delete("/fields/:id", optional, timeout.NewWithContext(DeleteFieldHandler(deps), 15*time.Second))
	v1.Get("/fields/:id/layouts", timeout.NewWithContext(FieldLayoutsHandler(deps), 15*time.Second))

	// Planting layouts
	v1.Post("/layouts/generate", optional, timeout.NewWithContext(GenerateLayoutHandler(deps), 30*time.Second))
	v1.Post("/layouts/optimize", timeout.NewWithContext(OptimizeSpacingHandler(deps), 30*time.Second))
	v1.Get("/layouts/:id", timeout.NewWithContext(GetLayoutHandler(deps), 15*time.Second))
	v1.Get("/layouts/:id/validate", timeout.NewWithContext(ValidateLayoutHandler(deps), 15*time.Second))
	v1.Delete("/layouts/:id", optional, timeout.NewWithContext(DeleteLayoutHandler(deps), 15*time.Second))

	// Legacy optimize path, kept for one release cycle.
	app.Use(DeprecationMiddleware([]DeprecatedRoute{{
		Path:        "/v1/planting/optimize",
		SunsetDate:  time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		Alternative: "/v1/layouts/optimize",
	}}))
	v1.Post("/planting/optimize", timeout.NewWithContext(OptimizeSpacingHandler(deps), 30*time.Second))

	// Planting calculations
	v1.Post("/planting/calculate", optional, timeout.NewWithContext(CalculatePlantingHandler(deps), 30*time.Second))
	v1.Get("/planting/history", optional, timeout.NewWithContext(PlantingHistoryHandler(deps), 15*time.Second))
	v1.Get("/planting/calculations/:id", timeout.NewWithContext(GetCalculationHandler(deps), 15*time.Second))

	// Image analyses
	v1.Post("/analyses", optional, timeout.NewWithContext(SubmitAnalysisHandler(deps), 15*time.Second))
	v1.Get("/analyses", optional, timeout.NewWithContext(ListAnalysesHandler(deps), 15*time.Second))
	v1.Get("/analyses/:id", timeout.NewWithContext(GetAnalysisHandler(deps), 15*time.Second))

	// Fruit quality grading (synchronous inference)
	v1.Post("/quality/grade", optional, timeout.NewWithContext(GradeQualityHandler(deps), 120*time.Second))
	v1.Get("/quality/reports", optional, timeout.NewWithContext(ListQualityReportsHandler(deps), 15*time.Second))
	v1.Get("/quality/reports/:id", timeout.NewWithContext(GetQualityReportHandler(deps), 15*time.Second))

	// Weather
	v1.Get("/weather/current", timeout.NewWithContext(CurrentWeatherHandler(deps), 15*time.Second))
	v1.Get("/weather/forecast", timeout.NewWithContext(ForecastHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
