package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quizku_backend/internals/constants"
	access "quizku_backend/internals/features/access/service"
	statsController "quizku_backend/internals/features/admin/stats/controller"
	authMiddleware "quizku_backend/internals/middlewares/auth"
)

// AdminStatsRoutes: /api/a/stats
func AdminStatsRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := statsController.NewAdminStatsController(db)
	admin.Get("/stats", authMiddleware.RequireCapability(access.CapViewStats, constants.RoleErrorAdmin("statistik")), ctrl.Get)
}
