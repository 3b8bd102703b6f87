package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quizku_backend/internals/constants"
	access "quizku_backend/internals/features/access/service"
	settingsController "quizku_backend/internals/features/settings/controller"
	authMiddleware "quizku_backend/internals/middlewares/auth"
)

// SettingsAdminRoutes: /api/a/settings & /api/a/update-settings
func SettingsAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := settingsController.NewSettingsController(db)
	guard := authMiddleware.RequireCapability(access.CapManageSettings, constants.RoleErrorAdmin("pengaturan"))

	admin.Get("/settings", guard, ctrl.Get)
	admin.Post("/update-settings", guard, ctrl.Update)
}
