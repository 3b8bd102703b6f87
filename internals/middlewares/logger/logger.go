package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"quizku_backend/internals/configs"
)

// LoggerMiddleware: access log per request. /health dan aset statis dilewati.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/favicon.ico"
		},
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   configs.GetEnv("LOG_TIMEZONE", "Asia/Jakarta"),
		Format:     "[${time}] ${locals:reqid} ${ip} - ${method} ${path} - ${status} - ${latency}\n",
	})
}
