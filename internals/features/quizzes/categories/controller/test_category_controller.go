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
	"quizku_backend/internals/features/quizzes/categories/dto"
	"quizku_backend/internals/features/quizzes/categories/model"
	helper "quizku_backend/internals/helpers"
)

type TestCategoryController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewTestCategoryController(db *gorm.DB) *TestCategoryController {
	return &TestCategoryController{DB: db, Validate: helper.NewValidator()}
}

func writeDBError(c *fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, what+" tidak ditemukan")
	case errors.Is(err, database.ErrWriteForbidden):
		return helper.JsonError(c, fiber.StatusForbidden, "Forbidden - admin only")
	case errors.Is(err, model.ErrInvalidTimeLimit):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case helper.IsUniqueViolation(err):
		return helper.JsonError(c, fiber.StatusConflict, what+" sudah ada")
	default:
		log.Printf("[ERROR] %s: %v", what, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
}

func (cc *TestCategoryController) withCounts(c *fiber.Ctx, rows []model.TestCategoryModel) ([]dto.TestCategoryResponse, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].TestCategoryID)
	}
	counts := map[uuid.UUID]int64{}
	if len(ids) > 0 {
		var agg []struct {
			TestCategoryID uuid.UUID
			N              int64
		}
		if err := cc.DB.WithContext(c.UserContext()).
			Table("tests").
			Select("test_category_id, COUNT(*) AS n").
			Where("test_category_id IN ?", ids).
			Group("test_category_id").
			Scan(&agg).Error; err != nil {
			return nil, err
		}
		for _, a := range agg {
			counts[a.TestCategoryID] = a.N
		}
	}
	out := make([]dto.TestCategoryResponse, 0, len(rows))
	for i := range rows {
		r := dto.FromModel(&rows[i])
		r.TestCount = counts[rows[i].TestCategoryID]
		out = append(out, r)
	}
	return out, nil
}

// GET /api/a/categories?q=
func (cc *TestCategoryController) List(c *fiber.Ctx) error {
	q := cc.DB.WithContext(c.UserContext()).Model(&model.TestCategoryModel{})
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(test_category_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var rows []model.TestCategoryModel
	if err := q.Order("test_category_name ASC").Find(&rows).Error; err != nil {
		return writeDBError(c, err, "Kategori")
	}
	out, err := cc.withCounts(c, rows)
	if err != nil {
		return writeDBError(c, err, "Kategori")
	}
	return helper.JsonList(c, "Daftar kategori", out, nil)
}

// GET /api/a/categories/:id
func (cc *TestCategoryController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var m model.TestCategoryModel
	if err := cc.DB.WithContext(c.UserContext()).First(&m, "test_category_id = ?", id).Error; err != nil {
		return writeDBError(c, err, "Kategori")
	}
	return helper.JsonOK(c, "Detail kategori", dto.FromModel(&m))
}

// POST /api/a/categories
func (cc *TestCategoryController) Create(c *fiber.Ctx) error {
	var req dto.CreateTestCategoryRequest
	if ok, err := helper.BindAndValidate(c, cc.Validate, &req); !ok {
		return err
	}

	ctx := c.UserContext()
	slug, err := helper.EnsureUniqueSlugCI(ctx, cc.DB, "test_categories", "test_category_slug",
		helper.Slugify(req.TestCategoryName, 120), nil, 120)
	if err != nil {
		return writeDBError(c, err, "Kategori")
	}

	m := req.ToModel(slug)
	if err := cc.DB.WithContext(ctx).Create(m).Error; err != nil {
		return writeDBError(c, err, "Kategori")
	}
	log.Printf("[INFO] kategori dibuat id=%s slug=%s", m.TestCategoryID, m.TestCategorySlug)
	return helper.JsonCreated(c, "Kategori berhasil dibuat", dto.FromModel(m))
}

// PATCH /api/a/categories/:id
func (cc *TestCategoryController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateTestCategoryRequest
	if ok, err := helper.BindAndValidate(c, cc.Validate, &req); !ok {
		return err
	}

	ctx := c.UserContext()
	var m model.TestCategoryModel
	if err := cc.DB.WithContext(ctx).First(&m, "test_category_id = ?", id).Error; err != nil {
		return writeDBError(c, err, "Kategori")
	}

	updates := req.ToUpdates()
	if len(updates) == 0 {
		return helper.JsonUpdated(c, "Tidak ada perubahan", dto.FromModel(&m))
	}
	if req.TestCategoryName != nil && strings.TrimSpace(*req.TestCategoryName) != m.TestCategoryName {
		slug, err := helper.EnsureUniqueSlugCI(ctx, cc.DB, "test_categories", "test_category_slug",
			helper.Slugify(*req.TestCategoryName, 120),
			func(q *gorm.DB) *gorm.DB { return q.Where("test_category_id <> ?", id) }, 120)
		if err != nil {
			return writeDBError(c, err, "Kategori")
		}
		updates["test_category_slug"] = slug
	}

	if err := cc.DB.WithContext(ctx).Model(&m).Updates(updates).Error; err != nil {
		return writeDBError(c, err, "Kategori")
	}
	if err := cc.DB.WithContext(ctx).First(&m, "test_category_id = ?", id).Error; err != nil {
		return writeDBError(c, err, "Kategori")
	}
	return helper.JsonUpdated(c, "Kategori diperbarui", dto.FromModel(&m))
}

// DELETE /api/a/categories/:id (cascade ke tests, questions, attempts)
func (cc *TestCategoryController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	res := cc.DB.WithContext(c.UserContext()).Delete(&model.TestCategoryModel{}, "test_category_id = ?", id)
	if res.Error != nil {
		return writeDBError(c, res.Error, "Kategori")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Kategori tidak ditemukan")
	}
	log.Printf("[INFO] kategori dihapus id=%s", id)
	return helper.JsonDeleted(c, "Kategori dihapus", fiber.Map{"test_category_id": id})
}
