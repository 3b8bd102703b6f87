// file: internals/features/users/auth/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "quizku_backend/internals/features/users/auth/controller"
	rateLimiter "quizku_backend/internals/middlewares"
	authMiddleware "quizku_backend/internals/middlewares/auth"
)

// AuthRoutes: Base /api/auth
func AuthRoutes(app fiber.Router, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	baseAuth := app.Group("/auth")

	// 🔓 Public
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)
	baseAuth.Post("/refresh-token", authController.RefreshToken)
	baseAuth.Post("/logout", authController.Logout)

	// 🔐 Protected
	protectedAuth := baseAuth.Group("", authMiddleware.AuthMiddleware(db))
	protectedAuth.Get("/me", authController.Me)
	protectedAuth.Post("/change-password", authController.ChangePassword)
}
