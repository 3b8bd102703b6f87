package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "quizku_backend/internals/features/quizzes/tests/model"
)

/* ===================== TEST ===================== */

type CreateTestRequest struct {
	TestCategoryID uuid.UUID `json:"test_category_id" validate:"required"`
	TestTitle      string    `json:"test_title" validate:"required,min=2,max=200"`
}

func (r CreateTestRequest) ToModel() *model.TestModel {
	return &model.TestModel{
		TestCategoryID: r.TestCategoryID,
		TestTitle:      strings.TrimSpace(r.TestTitle),
	}
}

type UpdateTestRequest struct {
	TestCategoryID *uuid.UUID `json:"test_category_id" validate:"omitempty"`
	TestTitle      *string    `json:"test_title" validate:"omitempty,min=2,max=200"`
}

func (r UpdateTestRequest) ToUpdates() map[string]any {
	out := map[string]any{}
	if r.TestCategoryID != nil {
		out["test_category_id"] = *r.TestCategoryID
	}
	if r.TestTitle != nil {
		out["test_title"] = strings.TrimSpace(*r.TestTitle)
	}
	return out
}

type TestResponse struct {
	TestID           uuid.UUID `json:"test_id"`
	TestCategoryID   uuid.UUID `json:"test_category_id"`
	TestCategoryName string    `json:"test_category_name,omitempty"`
	TestTitle        string    `json:"test_title"`
	QuestionCount    int64     `json:"question_count"`
	TestCreatedAt    time.Time `json:"test_created_at"`
	TestUpdatedAt    time.Time `json:"test_updated_at"`
}

func FromTestModel(m *model.TestModel) TestResponse {
	return TestResponse{
		TestID:         m.TestID,
		TestCategoryID: m.TestCategoryID,
		TestTitle:      m.TestTitle,
		TestCreatedAt:  m.TestCreatedAt,
		TestUpdatedAt:  m.TestUpdatedAt,
	}
}

/* ===================== CATALOG (dashboard) ===================== */

type CatalogTest struct {
	TestID        uuid.UUID `json:"test_id"`
	TestTitle     string    `json:"test_title"`
	QuestionCount int64     `json:"question_count"`
}

type CatalogCategory struct {
	TestCategoryID           uuid.UUID     `json:"test_category_id"`
	TestCategoryName         string        `json:"test_category_name"`
	TestCategorySlug         string        `json:"test_category_slug"`
	TestCategoryDescription  *string       `json:"test_category_description,omitempty"`
	TestCategoryTimeLimitSec int           `json:"test_category_time_limit_sec"`
	Tests                    []CatalogTest `json:"tests"`
}
