package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"quizku_backend/internals/configs"
	database "quizku_backend/internals/databases"
)

// BaseRoutes: /health untuk load balancer + status countdown attempt.
func BaseRoutes(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":         "OK",
			"database":       "Connected",
			"server_time":    time.Now().UTC().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    configs.GetEnv("RAILWAY_ENVIRONMENT", "local"),
		}
		if d.Recorder != nil && d.Recorder.Timers != nil {
			body["active_countdowns"] = d.Recorder.Timers.Active()
		}
		body["payments_enabled"] = d.Subscriptions != nil && d.Subscriptions.Snap != nil
		body["images_enabled"] = d.Images != nil

		if err := database.Ping(d.DB); err != nil {
			body["status"] = "DOWN"
			body["database"] = "Database connection error"
			return c.Status(fiber.StatusServiceUnavailable).JSON(body)
		}
		return c.JSON(body)
	})
}
