package quizzes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	access "quizku_backend/internals/features/access/service"
	categoryModel "quizku_backend/internals/features/quizzes/categories/model"
	testModel "quizku_backend/internals/features/quizzes/tests/model"
	helper "quizku_backend/internals/helpers"
)

type QuestionSeed struct {
	Text         string   `json:"text"`
	Answers      []string `json:"answers"`
	CorrectIndex int      `json:"correct_index"`
}

type TestSeed struct {
	Title     string         `json:"title"`
	Questions []QuestionSeed `json:"questions"`
}

type CategorySeed struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	TimeLimitSec int        `json:"time_limit_sec"`
	Tests        []TestSeed `json:"tests"`
}

// SeedResult: jumlah row yang benar-benar di-insert.
type SeedResult struct {
	Categories int
	Tests      int
	Questions  int
}

func SeedQuizzesFromJSON(ctx context.Context, db *gorm.DB, filePath string) (SeedResult, error) {
	log.Println("📥 Membaca file quiz:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return SeedResult{}, fmt.Errorf("baca %s: %w", filePath, err)
	}
	var inputs []CategorySeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return SeedResult{}, fmt.Errorf("decode %s: %w", filePath, err)
	}
	return SeedQuizzes(ctx, db, inputs)
}

// SeedQuizzes: kategori idempotent per slug, test per (kategori, judul).
// Soal hanya diisi untuk test yang baru dibuat supaya edit admin tidak tertimpa.
func SeedQuizzes(ctx context.Context, db *gorm.DB, inputs []CategorySeed) (SeedResult, error) {
	ctx = access.WithActor(ctx, access.SystemActor())
	var res SeedResult

	for _, cs := range inputs {
		if err := validateCategory(cs); err != nil {
			return res, err
		}
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			cat, created, err := ensureCategory(tx, cs)
			if err != nil {
				return err
			}
			if created {
				res.Categories++
			}
			for _, ts := range cs.Tests {
				n, err := ensureTest(tx, cat, ts)
				if err != nil {
					return err
				}
				if n >= 0 {
					res.Tests++
					res.Questions += n
				}
			}
			return nil
		})
		if err != nil {
			return res, fmt.Errorf("seed kategori %q: %w", cs.Name, err)
		}
	}
	log.Printf("✅ Seed quiz selesai: %d kategori, %d test, %d soal baru", res.Categories, res.Tests, res.Questions)
	return res, nil
}

func validateCategory(cs CategorySeed) error {
	if strings.TrimSpace(cs.Name) == "" {
		return errors.New("seed quiz: nama kategori kosong")
	}
	if cs.TimeLimitSec <= 0 {
		return fmt.Errorf("seed quiz %q: time_limit_sec harus > 0", cs.Name)
	}
	for _, ts := range cs.Tests {
		for i, q := range ts.Questions {
			if len(q.Answers) != testModel.AnswerChoices {
				return fmt.Errorf("seed quiz %q/%q soal %d: harus %d jawaban", cs.Name, ts.Title, i+1, testModel.AnswerChoices)
			}
			if q.CorrectIndex < 0 || q.CorrectIndex >= testModel.AnswerChoices {
				return fmt.Errorf("seed quiz %q/%q soal %d: correct_index di luar 0..3", cs.Name, ts.Title, i+1)
			}
		}
	}
	return nil
}

func ensureCategory(tx *gorm.DB, cs CategorySeed) (*categoryModel.TestCategoryModel, bool, error) {
	slug := helper.Slugify(cs.Name, helper.DefaultSlugMaxLen)

	var cat categoryModel.TestCategoryModel
	err := tx.Where("LOWER(test_category_slug) = ?", slug).First(&cat).Error
	if err == nil {
		log.Printf("ℹ️ Kategori '%s' sudah ada, dilewati.", slug)
		return &cat, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	cat = categoryModel.TestCategoryModel{
		TestCategoryName:         strings.TrimSpace(cs.Name),
		TestCategorySlug:         slug,
		TestCategoryTimeLimitSec: cs.TimeLimitSec,
	}
	if d := strings.TrimSpace(cs.Description); d != "" {
		cat.TestCategoryDescription = &d
	}
	if err := tx.Create(&cat).Error; err != nil {
		return nil, false, err
	}
	return &cat, true, nil
}

// ensureTest: -1 kalau test sudah ada, selain itu jumlah soal yang di-insert.
func ensureTest(tx *gorm.DB, cat *categoryModel.TestCategoryModel, ts TestSeed) (int, error) {
	title := strings.TrimSpace(ts.Title)
	var n int64
	if err := tx.Model(&testModel.TestModel{}).
		Where("test_category_id = ? AND LOWER(test_title) = ?", cat.TestCategoryID, strings.ToLower(title)).
		Count(&n).Error; err != nil {
		return 0, err
	}
	if n > 0 {
		return -1, nil
	}

	t := testModel.TestModel{TestCategoryID: cat.TestCategoryID, TestTitle: title}
	if err := tx.Create(&t).Error; err != nil {
		return 0, err
	}
	if len(ts.Questions) == 0 {
		return 0, nil
	}

	qs := make([]testModel.TestQuestionModel, 0, len(ts.Questions))
	for i, q := range ts.Questions {
		m := testModel.TestQuestionModel{
			TestQuestionTestID:       t.TestID,
			TestQuestionText:         strings.TrimSpace(q.Text),
			TestQuestionCorrectIndex: q.CorrectIndex,
			TestQuestionOrderIndex:   i + 1,
		}
		m.SetAnswers([testModel.AnswerChoices]string{q.Answers[0], q.Answers[1], q.Answers[2], q.Answers[3]})
		qs = append(qs, m)
	}
	if err := tx.CreateInBatches(&qs, 100).Error; err != nil {
		return 0, err
	}
	return len(qs), nil
}
