package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	testModel "quizku_backend/internals/features/quizzes/tests/model"
)

// TestAttemptAnswerModel: satu baris per soal per attempt, ditulis sekali saat finalisasi
type TestAttemptAnswerModel struct {
	TestAttemptAnswerID            uuid.UUID `json:"test_attempt_answer_id" gorm:"column:test_attempt_answer_id;type:uuid;primaryKey"`
	TestAttemptAnswerAttemptID     uuid.UUID `json:"test_attempt_answer_attempt_id" gorm:"column:test_attempt_answer_attempt_id;type:uuid;not null;uniqueIndex:uq_attempt_answer_question,priority:1"`
	TestAttemptAnswerQuestionID    uuid.UUID `json:"test_attempt_answer_question_id" gorm:"column:test_attempt_answer_question_id;type:uuid;not null;uniqueIndex:uq_attempt_answer_question,priority:2"`
	TestAttemptAnswerSelectedIndex int       `json:"test_attempt_answer_selected_index" gorm:"column:test_attempt_answer_selected_index;not null;check:chk_attempt_answer_selected,test_attempt_answer_selected_index BETWEEN -1 AND 3"`
	TestAttemptAnswerIsCorrect     bool      `json:"test_attempt_answer_is_correct" gorm:"column:test_attempt_answer_is_correct;not null"`

	Attempt  *TestAttemptModel            `json:"-" gorm:"foreignKey:TestAttemptAnswerAttemptID;references:TestAttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Question *testModel.TestQuestionModel `json:"-" gorm:"foreignKey:TestAttemptAnswerQuestionID;references:TestQuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (TestAttemptAnswerModel) TableName() string { return "test_attempt_answers" }

func (m *TestAttemptAnswerModel) BeforeCreate(tx *gorm.DB) error {
	if m.TestAttemptAnswerID == uuid.Nil {
		m.TestAttemptAnswerID = uuid.New()
	}
	return nil
}
