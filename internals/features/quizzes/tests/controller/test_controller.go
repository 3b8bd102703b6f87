package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	database "quizku_backend/internals/databases"
	categoryModel "quizku_backend/internals/features/quizzes/categories/model"
	"quizku_backend/internals/features/quizzes/tests/dto"
	"quizku_backend/internals/features/quizzes/tests/model"
	testService "quizku_backend/internals/features/quizzes/tests/service"
	helper "quizku_backend/internals/helpers"
)

type TestController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewTestController(db *gorm.DB) *TestController {
	return &TestController{DB: db, Validate: helper.NewValidator()}
}

func writeDBError(c *fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, what+" tidak ditemukan")
	case errors.Is(err, database.ErrWriteForbidden):
		return helper.JsonError(c, fiber.StatusForbidden, "Forbidden - admin only")
	case helper.IsUniqueViolation(err):
		return helper.JsonError(c, fiber.StatusConflict, what+" bentrok dengan data yang sudah ada")
	case helper.IsForeignKeyViolation(err):
		return helper.JsonError(c, fiber.StatusBadRequest, "Relasi tidak valid")
	default:
		log.Printf("[ERROR] %s: %v", what, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
}

func (tc *TestController) categoryExists(c *fiber.Ctx, id uuid.UUID) (bool, error) {
	var n int64
	err := tc.DB.WithContext(c.UserContext()).
		Model(&categoryModel.TestCategoryModel{}).
		Where("test_category_id = ?", id).
		Count(&n).Error
	return n > 0, err
}

// GET /api/a/tests?category_id=&q=
func (tc *TestController) List(c *fiber.Ctx) error {
	q := tc.DB.WithContext(c.UserContext()).
		Table("tests AS t").
		Select(`t.test_id, t.test_category_id, t.test_title, t.test_created_at, t.test_updated_at,
			c.test_category_name,
			(SELECT COUNT(*) FROM test_questions q WHERE q.test_question_test_id = t.test_id) AS question_count`).
		Joins("JOIN test_categories c ON c.test_category_id = t.test_category_id")

	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "category_id tidak valid")
		}
		q = q.Where("t.test_category_id = ?", id)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(t.test_title) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var rows []dto.TestResponse
	if err := q.Order("c.test_category_name ASC, t.test_title ASC").Scan(&rows).Error; err != nil {
		return writeDBError(c, err, "Test")
	}
	return helper.JsonList(c, "Daftar test", rows, nil)
}

// GET /api/a/tests/:id
func (tc *TestController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var m model.TestModel
	if err := tc.DB.WithContext(c.UserContext()).First(&m, "test_id = ?", id).Error; err != nil {
		return writeDBError(c, err, "Test")
	}
	return helper.JsonOK(c, "Detail test", dto.FromTestModel(&m))
}

// POST /api/a/tests
func (tc *TestController) Create(c *fiber.Ctx) error {
	var req dto.CreateTestRequest
	if ok, err := helper.BindAndValidate(c, tc.Validate, &req); !ok {
		return err
	}
	ok, err := tc.categoryExists(c, req.TestCategoryID)
	if err != nil {
		return writeDBError(c, err, "Test")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "Kategori tidak ditemukan")
	}

	m := req.ToModel()
	if err := tc.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return writeDBError(c, err, "Test")
	}
	log.Printf("[INFO] test dibuat id=%s category=%s", m.TestID, m.TestCategoryID)
	return helper.JsonCreated(c, "Test berhasil dibuat", dto.FromTestModel(m))
}

// PATCH /api/a/tests/:id
func (tc *TestController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateTestRequest
	if ok, err := helper.BindAndValidate(c, tc.Validate, &req); !ok {
		return err
	}
	if req.TestCategoryID != nil {
		ok, err := tc.categoryExists(c, *req.TestCategoryID)
		if err != nil {
			return writeDBError(c, err, "Test")
		}
		if !ok {
			return helper.JsonError(c, fiber.StatusBadRequest, "Kategori tidak ditemukan")
		}
	}

	ctx := c.UserContext()
	var m model.TestModel
	if err := tc.DB.WithContext(ctx).First(&m, "test_id = ?", id).Error; err != nil {
		return writeDBError(c, err, "Test")
	}
	if updates := req.ToUpdates(); len(updates) > 0 {
		if err := tc.DB.WithContext(ctx).Model(&m).Updates(updates).Error; err != nil {
			return writeDBError(c, err, "Test")
		}
		if err := tc.DB.WithContext(ctx).First(&m, "test_id = ?", id).Error; err != nil {
			return writeDBError(c, err, "Test")
		}
	}
	return helper.JsonUpdated(c, "Test diperbarui", dto.FromTestModel(&m))
}

// DELETE /api/a/tests/:id (cascade ke soal & attempt)
func (tc *TestController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	res := tc.DB.WithContext(c.UserContext()).Delete(&model.TestModel{}, "test_id = ?", id)
	if res.Error != nil {
		return writeDBError(c, res.Error, "Test")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Test tidak ditemukan")
	}
	log.Printf("[INFO] test dihapus id=%s", id)
	return helper.JsonDeleted(c, "Test dihapus", fiber.Map{"test_id": id})
}

// GET /api/u/catalog: kategori + test untuk dashboard user
func (tc *TestController) Catalog(c *fiber.Ctx) error {
	out, err := testService.LoadCatalog(c.UserContext(), tc.DB)
	if err != nil {
		return writeDBError(c, err, "Katalog")
	}
	return helper.JsonList(c, "Katalog test", out, nil)
}
