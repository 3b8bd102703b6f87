package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	testController "quizku_backend/internals/features/quizzes/tests/controller"
	helperOSS "quizku_backend/internals/helpers/oss"
)

// TestAdminRoutes: /api/a/tests & /api/a/questions
func TestAdminRoutes(admin fiber.Router, db *gorm.DB, images helperOSS.ImageStore) {
	tc := testController.NewTestController(db)
	qc := testController.NewTestQuestionController(db, images)

	tests := admin.Group("/tests")
	tests.Get("/", tc.List)
	tests.Get("/:id", tc.GetByID)
	tests.Post("/", tc.Create)
	tests.Patch("/:id", tc.Update)
	tests.Delete("/:id", tc.Delete)
	tests.Get("/:id/questions", qc.ListByTest)
	tests.Post("/:id/questions", qc.Create)

	questions := admin.Group("/questions")
	questions.Patch("/:id", qc.Update)
	questions.Delete("/:id", qc.Delete)
	questions.Post("/:id/image", qc.UploadImage)
}

// TestUserRoutes: katalog untuk user login (/api/u)
func TestUserRoutes(user fiber.Router, db *gorm.DB) {
	tc := testController.NewTestController(db)
	user.Get("/catalog", tc.Catalog)
}
