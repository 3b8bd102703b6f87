package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "quizku_backend/internals/features/quizzes/tests/model"
)

// CreateTestQuestionRequest: order_index kosong → urutan berikutnya
type CreateTestQuestionRequest struct {
	TestQuestionText         string   `json:"test_question_text" validate:"required,max=5000"`
	TestQuestionAnswers      []string `json:"test_question_answers" validate:"required,len=4,dive,required,max=1000"`
	TestQuestionCorrectIndex *int     `json:"test_question_correct_index" validate:"required,min=0,max=3"`
	TestQuestionOrderIndex   *int     `json:"test_question_order_index" validate:"omitempty,min=0"`
}

func (r CreateTestQuestionRequest) ToModel(testID uuid.UUID, orderIndex int) *model.TestQuestionModel {
	m := &model.TestQuestionModel{
		TestQuestionTestID:       testID,
		TestQuestionText:         strings.TrimSpace(r.TestQuestionText),
		TestQuestionCorrectIndex: *r.TestQuestionCorrectIndex,
		TestQuestionOrderIndex:   orderIndex,
	}
	m.SetAnswers(toAnswers(r.TestQuestionAnswers))
	return m
}

type UpdateTestQuestionRequest struct {
	TestQuestionText         *string  `json:"test_question_text" validate:"omitempty,min=1,max=5000"`
	TestQuestionAnswers      []string `json:"test_question_answers" validate:"omitempty,len=4,dive,required,max=1000"`
	TestQuestionCorrectIndex *int     `json:"test_question_correct_index" validate:"omitempty,min=0,max=3"`
	TestQuestionOrderIndex   *int     `json:"test_question_order_index" validate:"omitempty,min=0"`
}

func (r UpdateTestQuestionRequest) ToUpdates() map[string]any {
	out := map[string]any{}
	if r.TestQuestionText != nil {
		out["test_question_text"] = strings.TrimSpace(*r.TestQuestionText)
	}
	if len(r.TestQuestionAnswers) == model.AnswerChoices {
		a := toAnswers(r.TestQuestionAnswers)
		out["test_question_answer_0"] = a[0]
		out["test_question_answer_1"] = a[1]
		out["test_question_answer_2"] = a[2]
		out["test_question_answer_3"] = a[3]
	}
	if r.TestQuestionCorrectIndex != nil {
		out["test_question_correct_index"] = *r.TestQuestionCorrectIndex
	}
	if r.TestQuestionOrderIndex != nil {
		out["test_question_order_index"] = *r.TestQuestionOrderIndex
	}
	return out
}

func toAnswers(in []string) [model.AnswerChoices]string {
	var a [model.AnswerChoices]string
	for i := 0; i < model.AnswerChoices && i < len(in); i++ {
		a[i] = strings.TrimSpace(in[i])
	}
	return a
}

type TestQuestionResponse struct {
	TestQuestionID           uuid.UUID `json:"test_question_id"`
	TestQuestionTestID       uuid.UUID `json:"test_question_test_id"`
	TestQuestionText         string    `json:"test_question_text"`
	TestQuestionImageURL     *string   `json:"test_question_image_url,omitempty"`
	TestQuestionAnswers      []string  `json:"test_question_answers"`
	TestQuestionCorrectIndex int       `json:"test_question_correct_index"`
	TestQuestionOrderIndex   int       `json:"test_question_order_index"`
	TestQuestionUpdatedAt    time.Time `json:"test_question_updated_at"`
}

func FromQuestionModel(m *model.TestQuestionModel) TestQuestionResponse {
	a := m.Answers()
	return TestQuestionResponse{
		TestQuestionID:           m.TestQuestionID,
		TestQuestionTestID:       m.TestQuestionTestID,
		TestQuestionText:         m.TestQuestionText,
		TestQuestionImageURL:     m.TestQuestionImageURL,
		TestQuestionAnswers:      a[:],
		TestQuestionCorrectIndex: m.TestQuestionCorrectIndex,
		TestQuestionOrderIndex:   m.TestQuestionOrderIndex,
		TestQuestionUpdatedAt:    m.TestQuestionUpdatedAt,
	}
}
