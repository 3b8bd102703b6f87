package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	categoryController "quizku_backend/internals/features/quizzes/categories/controller"
)

// CategoryAdminRoutes: /api/a/categories (group sudah AuthMiddleware + OnlyAdmin)
func CategoryAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := categoryController.NewTestCategoryController(db)

	g := admin.Group("/categories")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.GetByID)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
