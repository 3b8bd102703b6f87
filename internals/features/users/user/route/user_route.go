package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quizku_backend/internals/constants"
	access "quizku_backend/internals/features/access/service"
	userController "quizku_backend/internals/features/users/user/controller"
	authMiddleware "quizku_backend/internals/middlewares/auth"
)

// UserAdminRoutes dipasang di group /api/a (sudah AuthMiddleware).
func UserAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := userController.NewAdminUserController(db)
	manageUsers := authMiddleware.RequireCapability(access.CapManageUsers, constants.RoleErrorAdmin("kelola user"))

	admin.Get("/users", manageUsers, ctrl.GetUsers)
	admin.Post("/grant-subscription", manageUsers, ctrl.GrantSubscription)
	admin.Post("/toggle-admin", manageUsers, ctrl.ToggleAdmin)
}
