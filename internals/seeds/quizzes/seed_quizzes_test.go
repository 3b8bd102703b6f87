package quizzes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizku_backend/internals/databases/dbtest"
	categoryModel "quizku_backend/internals/features/quizzes/categories/model"
	testModel "quizku_backend/internals/features/quizzes/tests/model"
)

func TestSeedQuizzesFromBundledJSON(t *testing.T) {
	db := dbtest.Open(t)

	res, err := SeedQuizzesFromJSON(context.Background(), db, "data_quizzes.json")
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Categories: 2, Tests: 3, Questions: 13}, res)

	// jalan kedua tidak menambah apa pun
	res, err = SeedQuizzesFromJSON(context.Background(), db, "data_quizzes.json")
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, res)

	var cat categoryModel.TestCategoryModel
	require.NoError(t, db.First(&cat, "test_category_slug = ?", "matematika-dasar").Error)
	assert.Equal(t, 600, cat.TestCategoryTimeLimitSec)

	var qs []testModel.TestQuestionModel
	require.NoError(t, db.
		Joins("JOIN tests ON tests.test_id = test_questions.test_question_test_id").
		Where("tests.test_title = ?", "Aritmetika 1").
		Order("test_question_order_index").
		Find(&qs).Error)
	require.Len(t, qs, 5)
	assert.Equal(t, 1, qs[0].TestQuestionOrderIndex)
	assert.Equal(t, "27", qs[0].Answers()[qs[0].TestQuestionCorrectIndex])
}

func TestSeedQuizzesAddsNewTestToExistingCategory(t *testing.T) {
	db := dbtest.Open(t)
	q := QuestionSeed{Text: "1+1?", Answers: []string{"1", "2", "3", "4"}, CorrectIndex: 1}

	_, err := SeedQuizzes(context.Background(), db, []CategorySeed{
		{Name: "Umum", TimeLimitSec: 60, Tests: []TestSeed{{Title: "A", Questions: []QuestionSeed{q}}}},
	})
	require.NoError(t, err)

	res, err := SeedQuizzes(context.Background(), db, []CategorySeed{
		{Name: "umum", TimeLimitSec: 60, Tests: []TestSeed{
			{Title: "a", Questions: []QuestionSeed{q, q}},
			{Title: "B", Questions: []QuestionSeed{q}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Tests: 1, Questions: 1}, res)
}

func TestSeedQuizzesRejectsInvalidInput(t *testing.T) {
	db := dbtest.Open(t)

	_, err := SeedQuizzes(context.Background(), db, []CategorySeed{{Name: "X", TimeLimitSec: 0}})
	assert.Error(t, err)

	_, err = SeedQuizzes(context.Background(), db, []CategorySeed{{
		Name: "X", TimeLimitSec: 10,
		Tests: []TestSeed{{Title: "T", Questions: []QuestionSeed{{Text: "?", Answers: []string{"a", "b", "c"}}}}},
	}})
	assert.Error(t, err)

	var n int64
	db.Model(&categoryModel.TestCategoryModel{}).Count(&n)
	assert.Zero(t, n)
}
