package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TestCategoryModel: kelompok tes dengan batas waktu bersama
type TestCategoryModel struct {
	TestCategoryID           uuid.UUID `json:"test_category_id" gorm:"column:test_category_id;type:uuid;primaryKey"`
	TestCategoryName         string    `json:"test_category_name" gorm:"column:test_category_name;size:120;not null"`
	TestCategorySlug         string    `json:"test_category_slug" gorm:"column:test_category_slug;size:120;not null;uniqueIndex"`
	TestCategoryDescription  *string   `json:"test_category_description,omitempty" gorm:"column:test_category_description;type:text"`
	TestCategoryTimeLimitSec int       `json:"test_category_time_limit_sec" gorm:"column:test_category_time_limit_sec;not null;check:chk_test_category_time_limit,test_category_time_limit_sec > 0"`

	TestCategoryCreatedAt time.Time `json:"test_category_created_at" gorm:"column:test_category_created_at;autoCreateTime"`
	TestCategoryUpdatedAt time.Time `json:"test_category_updated_at" gorm:"column:test_category_updated_at;autoUpdateTime"`
}

func (TestCategoryModel) TableName() string { return "test_categories" }

var ErrInvalidTimeLimit = errors.New("time limit must be greater than 0")

func (m *TestCategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.TestCategoryID == uuid.Nil {
		m.TestCategoryID = uuid.New()
	}
	if m.TestCategoryTimeLimitSec <= 0 {
		return ErrInvalidTimeLimit
	}
	return nil
}

func (m *TestCategoryModel) TimeLimit() time.Duration {
	return time.Duration(m.TestCategoryTimeLimitSec) * time.Second
}
