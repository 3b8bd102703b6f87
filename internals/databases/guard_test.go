package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "quizku_backend/internals/databases"
	"quizku_backend/internals/databases/dbtest"
	categoryModel "quizku_backend/internals/features/quizzes/categories/model"
	testModel "quizku_backend/internals/features/quizzes/tests/model"
	settingModel "quizku_backend/internals/features/settings/model"
)

func newCategory(slug string) *categoryModel.TestCategoryModel {
	return &categoryModel.TestCategoryModel{
		TestCategoryName:         "Matematika",
		TestCategorySlug:         slug,
		TestCategoryTimeLimitSec: 1800,
	}
}

func TestWriteGuardRejectsWithoutActor(t *testing.T) {
	db := dbtest.Open(t)

	err := db.WithContext(context.Background()).Create(newCategory("mat")).Error
	assert.ErrorIs(t, err, database.ErrWriteForbidden)

	err = db.WithContext(dbtest.AsUser()).Create(newCategory("mat")).Error
	assert.ErrorIs(t, err, database.ErrWriteForbidden)

	var n int64
	require.NoError(t, db.Model(&categoryModel.TestCategoryModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestWriteGuardAllowsAdminAndSystem(t *testing.T) {
	db := dbtest.Open(t)

	require.NoError(t, db.WithContext(dbtest.AsAdmin()).Create(newCategory("mat")).Error)
	require.NoError(t, db.WithContext(dbtest.AsSystem()).Create(newCategory("fis")).Error)

	err := db.WithContext(dbtest.AsUser()).
		Model(&categoryModel.TestCategoryModel{}).
		Where("test_category_slug = ?", "mat").
		Update("test_category_name", "X").Error
	assert.ErrorIs(t, err, database.ErrWriteForbidden)

	err = db.WithContext(dbtest.AsUser()).
		Where("test_category_slug = ?", "mat").
		Delete(&categoryModel.TestCategoryModel{}).Error
	assert.ErrorIs(t, err, database.ErrWriteForbidden)

	err = db.WithContext(dbtest.AsUser()).Create(&settingModel.AppSettingModel{
		AppSettingKey: settingModel.KeyTelegramAdminUsername, AppSettingValue: "x",
	}).Error
	assert.ErrorIs(t, err, database.ErrWriteForbidden)
}

func TestDeletingCategoryCascadesToTestsAndQuestions(t *testing.T) {
	db := dbtest.Open(t)
	ctx := dbtest.AsAdmin()

	cat := newCategory("mat")
	require.NoError(t, db.WithContext(ctx).Create(cat).Error)
	tst := &testModel.TestModel{TestCategoryID: cat.TestCategoryID, TestTitle: "Aljabar"}
	require.NoError(t, db.WithContext(ctx).Create(tst).Error)
	q := &testModel.TestQuestionModel{
		TestQuestionTestID: tst.TestID, TestQuestionText: "1+1?",
		TestQuestionAnswer0: "1", TestQuestionAnswer1: "2", TestQuestionAnswer2: "3", TestQuestionAnswer3: "4",
		TestQuestionCorrectIndex: 1, TestQuestionOrderIndex: 1,
	}
	require.NoError(t, db.WithContext(ctx).Create(q).Error)

	require.NoError(t, db.WithContext(ctx).Delete(&categoryModel.TestCategoryModel{}, "test_category_id = ?", cat.TestCategoryID).Error)

	var tests, questions int64
	require.NoError(t, db.Model(&testModel.TestModel{}).Where("test_category_id = ?", cat.TestCategoryID).Count(&tests).Error)
	require.NoError(t, db.Model(&testModel.TestQuestionModel{}).Count(&questions).Error)
	assert.Zero(t, tests)
	assert.Zero(t, questions)
}

func TestDuplicateQuestionOrderRejected(t *testing.T) {
	db := dbtest.Open(t)
	ctx := dbtest.AsAdmin()

	cat := newCategory("mat")
	require.NoError(t, db.WithContext(ctx).Create(cat).Error)
	tst := &testModel.TestModel{TestCategoryID: cat.TestCategoryID, TestTitle: "Aljabar"}
	require.NoError(t, db.WithContext(ctx).Create(tst).Error)

	mk := func() *testModel.TestQuestionModel {
		return &testModel.TestQuestionModel{
			TestQuestionTestID: tst.TestID, TestQuestionText: "?",
			TestQuestionAnswer0: "a", TestQuestionAnswer1: "b", TestQuestionAnswer2: "c", TestQuestionAnswer3: "d",
			TestQuestionOrderIndex: 1,
		}
	}
	require.NoError(t, db.WithContext(ctx).Create(mk()).Error)
	assert.Error(t, db.WithContext(ctx).Create(mk()).Error)
}
