package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	categoryModel "quizku_backend/internals/features/quizzes/categories/model"
)

// TestModel: satu tes = banyak soal (TestQuestionModel)
type TestModel struct {
	TestID         uuid.UUID `json:"test_id" gorm:"column:test_id;type:uuid;primaryKey"`
	TestCategoryID uuid.UUID `json:"test_category_id" gorm:"column:test_category_id;type:uuid;not null;index"`
	TestTitle      string    `json:"test_title" gorm:"column:test_title;size:200;not null"`

	TestCreatedAt time.Time `json:"test_created_at" gorm:"column:test_created_at;autoCreateTime"`
	TestUpdatedAt time.Time `json:"test_updated_at" gorm:"column:test_updated_at;autoUpdateTime"`

	// hanya untuk FK ON DELETE CASCADE
	Category *categoryModel.TestCategoryModel `json:"-" gorm:"foreignKey:TestCategoryID;references:TestCategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (TestModel) TableName() string { return "tests" }

func (m *TestModel) BeforeCreate(tx *gorm.DB) error {
	if m.TestID == uuid.Nil {
		m.TestID = uuid.New()
	}
	return nil
}
