package api

import (
	"github.com/bilgisen/tumblrfeed/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers) {
	api := app.Group("/api/v1")

	api.Get("/health", handlers.HealthCheck)

	feed := api.Group("/feed")
	{
		feed.Get("", handlers.GetFeed)
		feed.Post("/refresh", handlers.RefreshFeed)
		feed.Post("/scroll", middleware.ValidateQuery[ScrollRequest](), handlers.ScrollFeed)
		feed.Get("/rows/:index/image", handlers.GetRowImage)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
