package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	categoryModel "quizku_backend/internals/features/quizzes/categories/model"
	testModel "quizku_backend/internals/features/quizzes/tests/model"
	userModel "quizku_backend/internals/features/users/user/model"
)

// UserOpt mengubah user sebelum disimpan.
type UserOpt func(*userModel.UserModel)

func Admin() UserOpt { return func(u *userModel.UserModel) { u.IsAdmin = true } }

func TrialUntil(t time.Time) UserOpt {
	return func(u *userModel.UserModel) { u.TrialEndsAt = &t }
}

func SubscribedUntil(t time.Time) UserOpt {
	return func(u *userModel.UserModel) { u.SubscriptionEndsAt = &t }
}

func CreatedAt(t time.Time) UserOpt {
	return func(u *userModel.UserModel) { u.CreatedAt = t }
}

// SeedUser: user aktif dengan email unik. Password diisi hash dummy.
func SeedUser(t *testing.T, db *gorm.DB, opts ...UserOpt) *userModel.UserModel {
	t.Helper()
	short := uuid.NewString()[:8]
	u := &userModel.UserModel{
		UserName: "user_" + short,
		Email:    short + "@quizku.test",
		Password: "$2a$10$placeholderplaceholderplaceholderplaceholderpl",
		IsActive: true,
	}
	for _, o := range opts {
		o(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedQuiz: 1 kategori (timeLimitSec) + 1 test + n soal. Jawaban benar soal ke-i = i % 4.
func SeedQuiz(t *testing.T, db *gorm.DB, timeLimitSec, n int) (*categoryModel.TestCategoryModel, *testModel.TestModel, []testModel.TestQuestionModel) {
	t.Helper()
	ctx := AsSystem()
	short := uuid.NewString()[:8]

	cat := &categoryModel.TestCategoryModel{
		TestCategoryName:         "Kategori " + short,
		TestCategorySlug:         "kategori-" + short,
		TestCategoryTimeLimitSec: timeLimitSec,
	}
	require.NoError(t, db.WithContext(ctx).Create(cat).Error)

	tm := &testModel.TestModel{TestCategoryID: cat.TestCategoryID, TestTitle: "Test " + short}
	require.NoError(t, db.WithContext(ctx).Create(tm).Error)

	qs := make([]testModel.TestQuestionModel, 0, n)
	for i := 0; i < n; i++ {
		q := testModel.TestQuestionModel{
			TestQuestionTestID:       tm.TestID,
			TestQuestionText:         fmt.Sprintf("Soal %d", i+1),
			TestQuestionCorrectIndex: i % testModel.AnswerChoices,
			TestQuestionOrderIndex:   i,
		}
		q.SetAnswers([testModel.AnswerChoices]string{"A", "B", "C", "D"})
		require.NoError(t, db.WithContext(ctx).Create(&q).Error)
		qs = append(qs, q)
	}
	return cat, tm, qs
}
