package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quizku_backend/internals/constants"
	"quizku_backend/internals/features/quizzes/tests/dto"
	"quizku_backend/internals/features/quizzes/tests/model"
	testService "quizku_backend/internals/features/quizzes/tests/service"
	helper "quizku_backend/internals/helpers"
	helperOSS "quizku_backend/internals/helpers/oss"
)

type TestQuestionController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	// nil = OSS belum dikonfigurasi → upload gambar 503
	Images helperOSS.ImageStore
}

func NewTestQuestionController(db *gorm.DB, images helperOSS.ImageStore) *TestQuestionController {
	return &TestQuestionController{DB: db, Validate: helper.NewValidator(), Images: images}
}

// GET /api/a/tests/:id/questions
func (qc *TestQuestionController) ListByTest(c *fiber.Ctx) error {
	testID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var rows []model.TestQuestionModel
	if err := qc.DB.WithContext(c.UserContext()).
		Where("test_question_test_id = ?", testID).
		Order("test_question_order_index ASC").
		Find(&rows).Error; err != nil {
		return writeDBError(c, err, "Soal")
	}
	out := make([]dto.TestQuestionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromQuestionModel(&rows[i]))
	}
	return helper.JsonList(c, "Daftar soal", out, nil)
}

// POST /api/a/tests/:id/questions
func (qc *TestQuestionController) Create(c *fiber.Ctx) error {
	testID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateTestQuestionRequest
	if ok, err := helper.BindAndValidate(c, qc.Validate, &req); !ok {
		return err
	}

	ctx := c.UserContext()
	var test model.TestModel
	if err := qc.DB.WithContext(ctx).Select("test_id").First(&test, "test_id = ?", testID).Error; err != nil {
		return writeDBError(c, err, "Test")
	}

	order := 0
	if req.TestQuestionOrderIndex != nil {
		order = *req.TestQuestionOrderIndex
	} else if order, err = testService.NextOrderIndex(ctx, qc.DB, testID); err != nil {
		return writeDBError(c, err, "Soal")
	}

	m := req.ToModel(testID, order)
	if err := qc.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Urutan soal sudah dipakai di test ini")
		}
		return writeDBError(c, err, "Soal")
	}
	return helper.JsonCreated(c, "Soal berhasil dibuat", dto.FromQuestionModel(m))
}

// PATCH /api/a/questions/:id
func (qc *TestQuestionController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateTestQuestionRequest
	if ok, err := helper.BindAndValidate(c, qc.Validate, &req); !ok {
		return err
	}

	ctx := c.UserContext()
	var m model.TestQuestionModel
	if err := qc.DB.WithContext(ctx).First(&m, "test_question_id = ?", id).Error; err != nil {
		return writeDBError(c, err, "Soal")
	}
	if updates := req.ToUpdates(); len(updates) > 0 {
		if err := qc.DB.WithContext(ctx).Model(&m).Updates(updates).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.JsonError(c, fiber.StatusConflict, "Urutan soal sudah dipakai di test ini")
			}
			return writeDBError(c, err, "Soal")
		}
		if err := qc.DB.WithContext(ctx).First(&m, "test_question_id = ?", id).Error; err != nil {
			return writeDBError(c, err, "Soal")
		}
	}
	return helper.JsonUpdated(c, "Soal diperbarui", dto.FromQuestionModel(&m))
}

// DELETE /api/a/questions/:id
func (qc *TestQuestionController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	ctx := c.UserContext()
	var m model.TestQuestionModel
	if err := qc.DB.WithContext(ctx).First(&m, "test_question_id = ?", id).Error; err != nil {
		return writeDBError(c, err, "Soal")
	}
	if err := qc.DB.WithContext(ctx).Delete(&m).Error; err != nil {
		return writeDBError(c, err, "Soal")
	}
	qc.trashImage(c, m.TestQuestionImageURL)
	return helper.JsonDeleted(c, "Soal dihapus", fiber.Map{"test_question_id": id})
}

// POST /api/a/questions/:id/image (multipart field "image")
func (qc *TestQuestionController) UploadImage(c *fiber.Ctx) error {
	if qc.Images == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Penyimpanan gambar belum dikonfigurasi")
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	ctx := c.UserContext()
	var m model.TestQuestionModel
	if err := qc.DB.WithContext(ctx).First(&m, "test_question_id = ?", id).Error; err != nil {
		return writeDBError(c, err, "Soal")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File gambar wajib diisi (field: image)")
	}
	if constants.DetectFileTypeFromExt(fh.Filename) != constants.FileTypeImage {
		return helper.JsonError(c, fiber.StatusBadRequest, "File harus berupa gambar (png/jpg/webp/gif)")
	}
	url, err := qc.Images.UploadImage(ctx, fh, "questions")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	old := m.TestQuestionImageURL
	if err := qc.DB.WithContext(ctx).Model(&m).Update("test_question_image_url", url).Error; err != nil {
		return writeDBError(c, err, "Soal")
	}
	qc.trashImage(c, old)

	m.TestQuestionImageURL = &url
	return helper.JsonUpdated(c, "Gambar soal diperbarui", dto.FromQuestionModel(&m))
}

// trashImage: gambar lama dipindah ke spam/ (dihapus permanen oleh reaper).
func (qc *TestQuestionController) trashImage(c *fiber.Ctx, url *string) {
	if qc.Images == nil || url == nil || *url == "" {
		return
	}
	if dst, err := qc.Images.MoveToSpam(c.UserContext(), *url); err != nil {
		log.Printf("[WARN] move image to spam gagal url=%s: %v", *url, err)
	} else {
		log.Printf("[INFO] image lama dipindah ke %s", dst)
	}
}
