package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	categoryModel "quizku_backend/internals/features/quizzes/categories/model"
	"quizku_backend/internals/features/quizzes/tests/dto"
)

type testRow struct {
	TestID         uuid.UUID
	TestCategoryID uuid.UUID
	TestTitle      string
	QuestionCount  int64
}

// LoadCatalog: semua kategori (urut nama) beserta test-nya (urut judul) dan jumlah soal.
// Test tanpa soal tetap tampil; attempt-nya ditolak saat start.
func LoadCatalog(ctx context.Context, db *gorm.DB) ([]dto.CatalogCategory, error) {
	var cats []categoryModel.TestCategoryModel
	if err := db.WithContext(ctx).Order("test_category_name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}

	var rows []testRow
	if err := db.WithContext(ctx).
		Table("tests AS t").
		Select("t.test_id, t.test_category_id, t.test_title, COUNT(q.test_question_id) AS question_count").
		Joins("LEFT JOIN test_questions q ON q.test_question_test_id = t.test_id").
		Group("t.test_id, t.test_category_id, t.test_title").
		Order("t.test_title ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byCat := map[uuid.UUID][]dto.CatalogTest{}
	for _, r := range rows {
		byCat[r.TestCategoryID] = append(byCat[r.TestCategoryID], dto.CatalogTest{
			TestID:        r.TestID,
			TestTitle:     r.TestTitle,
			QuestionCount: r.QuestionCount,
		})
	}

	out := make([]dto.CatalogCategory, 0, len(cats))
	for i := range cats {
		tests := byCat[cats[i].TestCategoryID]
		if tests == nil {
			tests = []dto.CatalogTest{}
		}
		out = append(out, dto.CatalogCategory{
			TestCategoryID:           cats[i].TestCategoryID,
			TestCategoryName:         cats[i].TestCategoryName,
			TestCategorySlug:         cats[i].TestCategorySlug,
			TestCategoryDescription:  cats[i].TestCategoryDescription,
			TestCategoryTimeLimitSec: cats[i].TestCategoryTimeLimitSec,
			Tests:                    tests,
		})
	}
	return out, nil
}

// NextOrderIndex: MAX(order_index)+1, atau 0 untuk test tanpa soal.
func NextOrderIndex(ctx context.Context, db *gorm.DB, testID uuid.UUID) (int, error) {
	var next int
	err := db.WithContext(ctx).
		Table("test_questions").
		Select("COALESCE(MAX(test_question_order_index), -1) + 1").
		Where("test_question_test_id = ?", testID).
		Scan(&next).Error
	return next, err
}
