package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	accessController "quizku_backend/internals/features/access/controller"
)

// AccessUserRoutes: /api/u/access
func AccessUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := accessController.NewAccessController(db)
	user.Get("/access/me", ctrl.Me)
}
