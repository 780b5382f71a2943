package server

import (
	"context"
	"log"

	"intituas-ai-be/internal/bootstrap"
	"intituas-ai-be/internal/config"
	"intituas-ai-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Documents are capped well below this; the limit only stops abuse.
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

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

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})
	if c.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(c.Metrics.Handler()))
	}

	api := app.Group("/api")
	auth := serverutils.JwtMiddleware(cfg.App.JWTSecret)
	optionalAuth := serverutils.OptionalJwtMiddleware(cfg.App.JWTSecret)

	c.ChatController.RegisterRoutes(api, optionalAuth, serverutils.UsageLimitMiddleware(c.Limiter, c.Metrics, c.Logger))
	c.HistoryController.RegisterRoutes(api, auth)
	c.ContactController.RegisterRoutes(api)
	c.AuthController.RegisterRoutes(api, auth)

	c.ChatSocketHandler.RegisterRoutes(api)
}
