package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "quizku_backend/internals/features/quizzes/categories/model"
)

/* ===================== REQUESTS ===================== */

// Create: slug dibuat dari nama di controller
type CreateTestCategoryRequest struct {
	TestCategoryName         string  `json:"test_category_name" validate:"required,min=2,max=120"`
	TestCategoryDescription  *string `json:"test_category_description" validate:"omitempty,max=2000"`
	TestCategoryTimeLimitSec int     `json:"test_category_time_limit_sec" validate:"required,gt=0,lte=86400"`
}

func (r CreateTestCategoryRequest) ToModel(slug string) *model.TestCategoryModel {
	return &model.TestCategoryModel{
		TestCategoryName:         strings.TrimSpace(r.TestCategoryName),
		TestCategorySlug:         slug,
		TestCategoryDescription:  trimOrNil(r.TestCategoryDescription),
		TestCategoryTimeLimitSec: r.TestCategoryTimeLimitSec,
	}
}

// Update: semua optional (partial update)
type UpdateTestCategoryRequest struct {
	TestCategoryName         *string `json:"test_category_name" validate:"omitempty,min=2,max=120"`
	TestCategoryDescription  *string `json:"test_category_description" validate:"omitempty,max=2000"`
	TestCategoryTimeLimitSec *int    `json:"test_category_time_limit_sec" validate:"omitempty,gt=0,lte=86400"`
}

// ToUpdates: hanya field yang dikirim. Slug diisi controller kalau nama berubah.
func (r UpdateTestCategoryRequest) ToUpdates() map[string]any {
	out := map[string]any{}
	if r.TestCategoryName != nil {
		out["test_category_name"] = strings.TrimSpace(*r.TestCategoryName)
	}
	if r.TestCategoryDescription != nil {
		out["test_category_description"] = trimOrNil(r.TestCategoryDescription)
	}
	if r.TestCategoryTimeLimitSec != nil {
		out["test_category_time_limit_sec"] = *r.TestCategoryTimeLimitSec
	}
	return out
}

func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

/* ===================== RESPONSES ===================== */

type TestCategoryResponse struct {
	TestCategoryID           uuid.UUID `json:"test_category_id"`
	TestCategoryName         string    `json:"test_category_name"`
	TestCategorySlug         string    `json:"test_category_slug"`
	TestCategoryDescription  *string   `json:"test_category_description,omitempty"`
	TestCategoryTimeLimitSec int       `json:"test_category_time_limit_sec"`
	TestCount                int64     `json:"test_count"`
	TestCategoryCreatedAt    time.Time `json:"test_category_created_at"`
	TestCategoryUpdatedAt    time.Time `json:"test_category_updated_at"`
}

func FromModel(m *model.TestCategoryModel) TestCategoryResponse {
	return TestCategoryResponse{
		TestCategoryID:           m.TestCategoryID,
		TestCategoryName:         m.TestCategoryName,
		TestCategorySlug:         m.TestCategorySlug,
		TestCategoryDescription:  m.TestCategoryDescription,
		TestCategoryTimeLimitSec: m.TestCategoryTimeLimitSec,
		TestCategoryCreatedAt:    m.TestCategoryCreatedAt,
		TestCategoryUpdatedAt:    m.TestCategoryUpdatedAt,
	}
}
