// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"quizku_backend/internals/configs"
)

// CorsMiddleware: origin dari CORS_ORIGINS (dipisah koma), default dev lokal
func CorsMiddleware() fiber.Handler {
	origins := configs.GetEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(parts, ", "),
		AllowMethods:     "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: true,
	})
}
