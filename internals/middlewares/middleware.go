package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"quizku_backend/internals/configs"
	"quizku_backend/internals/middlewares/logger"
)

// SetupMiddlewares: urutan recover → request-id → access log → CORS → global limiter
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID(configs.RequestTimeout))
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
