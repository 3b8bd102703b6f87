package database

import (
	"gorm.io/gorm"

	subscriptionModel "quizku_backend/internals/features/finance/subscriptions/model"
	attemptModel "quizku_backend/internals/features/quizzes/attempts/model"
	categoryModel "quizku_backend/internals/features/quizzes/categories/model"
	testModel "quizku_backend/internals/features/quizzes/tests/model"
	settingModel "quizku_backend/internals/features/settings/model"
	authModel "quizku_backend/internals/features/users/auth/model"
	userModel "quizku_backend/internals/features/users/user/model"
)

// Models: urutan parent → child (FK ON DELETE CASCADE ikut dibuat GORM)
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.RefreshToken{},
		&authModel.TokenBlacklist{},
		&categoryModel.TestCategoryModel{},
		&testModel.TestModel{},
		&testModel.TestQuestionModel{},
		&attemptModel.TestAttemptModel{},
		&attemptModel.TestAttemptAnswerModel{},
		&settingModel.AppSettingModel{},
		&subscriptionModel.SubscriptionOrderModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
