package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/monuchauhan/nios-elearning/internal/api/http/handlers"
	"github.com/monuchauhan/nios-elearning/internal/auth"
	"github.com/monuchauhan/nios-elearning/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Course         *handlers.CourseHandler
	Payment        *handlers.PaymentHandler
	AuthMiddleware *auth.Middleware
	Metrics        *observability.Metrics
	AllowOrigins   string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	allowOrigins := cfg.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	api := app.Group("/api", cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	required := cfg.AuthMiddleware.Required
	optional := cfg.AuthMiddleware.Optional

	api.Get("/health", cfg.Health.Health)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", required, cfg.Auth.Me)

	api.Get("/course", cfg.Course.Course)
	api.Get("/progress", required, cfg.Course.Progress)

	chapters := api.Group("/chapters")
	chapters.Get("/", optional, cfg.Course.Chapters)
	chapters.Get("/:id", optional, cfg.Course.Chapter)
	chapters.Post("/:id/complete", required, cfg.Course.Complete)
	chapters.Get("/:id/quizzes", optional, cfg.Course.Quizzes)
	chapters.Get("/:chapterId/quizzes/:quizId", optional, cfg.Course.Quiz)
	chapters.Post("/:chapterId/quizzes/:quizId/check-answer", optional, cfg.Course.CheckAnswer)
	chapters.Post("/:chapterId/quizzes/:quizId/save-result", required, cfg.Course.SaveResult)

	pay := api.Group("/payment")
	pay.Get("/config", cfg.Payment.Config)
	pay.Post("/validate-coupon", cfg.Payment.ValidateCoupon)
	pay.Post("/create-order", required, cfg.Payment.CreateOrder)
	pay.Post("/verify", required, cfg.Payment.Verify)
}
