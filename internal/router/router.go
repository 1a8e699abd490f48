package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mindlift/mindlift-api/internal/config"
	"github.com/mindlift/mindlift-api/internal/handler"
	"github.com/mindlift/mindlift-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ChatHandler         *handler.ChatHandler
	PostHandler         *handler.PostHandler
	ArticleHandler      *handler.ArticleHandler
	JobHandler          *handler.JobHandler
	WorkoutHandler      *handler.WorkoutHandler
	ProfileHandler      *handler.ProfileHandler
	NotificationHandler *handler.NotificationHandler
	UploadHandler       *handler.UploadHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.ChatHandler != nil {
		chat := api.Group("/chat")
		deps.ChatHandler.Register(chat)
	}

	if deps.PostHandler != nil {
		posts := api.Group("/posts")
		deps.PostHandler.Register(posts)
	}

	if deps.ArticleHandler != nil {
		articles := api.Group("/articles")
		deps.ArticleHandler.Register(articles)
	}

	if deps.JobHandler != nil {
		jobs := api.Group("/jobs", jwtMiddleware)
		deps.JobHandler.Register(jobs)
	}

	if deps.WorkoutHandler != nil {
		workouts := api.Group("/workouts", middleware.RateLimit("workout_generate", 5, time.Minute))
		deps.WorkoutHandler.Register(workouts)
	}

	if deps.ProfileHandler != nil {
		profiles := api.Group("/profiles")
		deps.ProfileHandler.Register(profiles)

		dashboard := api.Group("/dashboard")
		deps.ProfileHandler.RegisterDashboard(dashboard)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}

	if deps.UploadHandler != nil {
		uploads := api.Group("/uploads", middleware.RateLimit("uploads", 10, time.Minute))
		deps.UploadHandler.Register(uploads)
	}
}
