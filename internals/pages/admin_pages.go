package pages

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	statsService "quizku_backend/internals/features/admin/stats/service"
	categoryDTO "quizku_backend/internals/features/quizzes/categories/dto"
	categoryModel "quizku_backend/internals/features/quizzes/categories/model"
	testDTO "quizku_backend/internals/features/quizzes/tests/dto"
	testModel "quizku_backend/internals/features/quizzes/tests/model"
	settingsService "quizku_backend/internals/features/settings/service"
	userService "quizku_backend/internals/features/users/user/service"
	helper "quizku_backend/internals/helpers"
)

const adminUsersPerPage = 50

// GET /admin: ringkasan angka + attempt terbaru.
func (p *Pages) AdminHome(c *fiber.Ctx) error {
	stats, err := statsService.LoadAdminStats(c.UserContext(), p.DB)
	if err != nil {
		logReadError("admin stats", err)
		return p.serverError(c)
	}
	return p.render(c, fiber.StatusOK, "admin/index", "Admin", fiber.Map{"Stats": stats})
}

// GET /admin/users?page=
func (p *Pages) AdminUsers(c *fiber.Ctx) error {
	params := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	if params.PerPage > adminUsersPerPage {
		params.PerPage = adminUsersPerPage
	}
	users, total, err := userService.ListUsersWithStats(c.UserContext(), p.DB, params.Limit(), params.Offset())
	if err != nil {
		logReadError("admin users", err)
		return p.serverError(c)
	}
	return p.render(c, fiber.StatusOK, "admin/users", "Kelola User", fiber.Map{
		"Users":      users,
		"Pagination": helper.BuildPagination(total, params),
	})
}

// GET /admin/categories: kategori + daftar test per kategori.
func (p *Pages) AdminCategories(c *fiber.Ctx) error {
	var cats []categoryModel.TestCategoryModel
	if err := p.DB.WithContext(c.UserContext()).
		Order("test_category_name ASC").
		Find(&cats).Error; err != nil {
		logReadError("admin categories", err)
		return p.serverError(c)
	}
	var tests []testModel.TestModel
	if err := p.DB.WithContext(c.UserContext()).
		Order("test_title ASC").
		Find(&tests).Error; err != nil {
		logReadError("admin tests", err)
		return p.serverError(c)
	}

	type categoryRow struct {
		categoryDTO.TestCategoryResponse
		Tests []testDTO.TestResponse
	}
	byCat := map[string][]testDTO.TestResponse{}
	for i := range tests {
		k := tests[i].TestCategoryID.String()
		byCat[k] = append(byCat[k], testDTO.FromTestModel(&tests[i]))
	}
	rows := make([]categoryRow, 0, len(cats))
	for i := range cats {
		r := categoryRow{TestCategoryResponse: categoryDTO.FromModel(&cats[i])}
		r.Tests = byCat[cats[i].TestCategoryID.String()]
		r.TestCount = int64(len(r.Tests))
		rows = append(rows, r)
	}
	return p.render(c, fiber.StatusOK, "admin/categories", "Kategori & Test", fiber.Map{"Categories": rows})
}

// GET /admin/tests/:id/questions
func (p *Pages) AdminQuestions(c *fiber.Ctx) error {
	testID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return p.notFound(c)
	}
	var t testModel.TestModel
	if err := p.DB.WithContext(c.UserContext()).First(&t, "test_id = ?", testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return p.notFound(c)
		}
		logReadError("admin test", err)
		return p.serverError(c)
	}
	var qs []testModel.TestQuestionModel
	if err := p.DB.WithContext(c.UserContext()).
		Where("test_question_test_id = ?", testID).
		Order("test_question_order_index ASC").
		Find(&qs).Error; err != nil {
		logReadError("admin questions", err)
		return p.serverError(c)
	}
	out := make([]testDTO.TestQuestionResponse, 0, len(qs))
	for i := range qs {
		out = append(out, testDTO.FromQuestionModel(&qs[i]))
	}
	return p.render(c, fiber.StatusOK, "admin/questions", "Soal "+t.TestTitle, fiber.Map{
		"Test":      testDTO.FromTestModel(&t),
		"Questions": out,
	})
}

// GET /admin/settings
func (p *Pages) AdminSettings(c *fiber.Ctx) error {
	return p.render(c, fiber.StatusOK, "admin/settings", "Pengaturan", fiber.Map{
		"Settings": settingsService.Load(c.UserContext(), p.DB),
	})
}
