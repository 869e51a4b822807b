package server

import (
	"log"
	"time"

	"gelisim-chatbot-be/internal/bootstrap"
	"gelisim-chatbot-be/internal/config"
	"gelisim-chatbot-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Per-minute burst ceilings, the fast first layer in front of the daily
// budget counters.
const (
	chatRequestsPerMinute    = 20
	defaultRequestsPerMinute = 100
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		// Chat queries are capped at 1000 characters; anything near the
		// body limit is hostile, not a big question.
		BodyLimit:             10 * 1024, // 10KB
		DisableStartupMessage: cfg.App.Environment == "production",
	})

	// Middleware
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CorsAllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, " + cfg.Security.APIKeyHeader,
		AllowMethods: "GET, POST, OPTIONS",
	}))

	app.Use(serverutils.SecurityHeadersMiddleware())

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	app.Use(limiter.New(limiter.Config{
		Max:        defaultRequestsPerMinute,
		Expiration: time.Minute,
	}))

	// Routes
	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api/v1")

	// Liveness stays open; load balancers do not carry API keys.
	c.HealthController.RegisterRoutes(api)

	if len(cfg.Security.APIKeys) > 0 {
		api.Use(serverutils.APIKeyMiddleware(cfg.Security.APIKeyHeader, cfg.Security.APIKeys, c.Events))
	} else {
		log.Printf("[WARN] No API keys configured, chat endpoints are UNAUTHENTICATED")
	}

	// Tighter per-minute ceiling on the endpoints that bill tokens.
	api.Use("/chat", limiter.New(limiter.Config{
		Max:        chatRequestsPerMinute,
		Expiration: time.Minute,
		LimitReached: func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(serverutils.ErrorResponse{
				Error:   "quota_exceeded",
				Message: "Çok fazla istek gönderdiniz. Lütfen bir dakika bekleyin.",
			})
		},
	}))

	c.ChatController.RegisterRoutes(api)
	c.AdminController.RegisterRoutes(api)
}
