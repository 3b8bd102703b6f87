package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const AnswerChoices = 4

// TestQuestionModel: 4 pilihan jawaban, satu index benar (0..3)
type TestQuestionModel struct {
	TestQuestionID       uuid.UUID `json:"test_question_id" gorm:"column:test_question_id;type:uuid;primaryKey"`
	TestQuestionTestID   uuid.UUID `json:"test_question_test_id" gorm:"column:test_question_test_id;type:uuid;not null;uniqueIndex:uq_test_question_order,priority:1"`
	TestQuestionText     string    `json:"test_question_text" gorm:"column:test_question_text;type:text;not null"`
	TestQuestionImageURL *string   `json:"test_question_image_url,omitempty" gorm:"column:test_question_image_url;type:text"`

	TestQuestionAnswer0      string `json:"test_question_answer_0" gorm:"column:test_question_answer_0;type:text;not null"`
	TestQuestionAnswer1      string `json:"test_question_answer_1" gorm:"column:test_question_answer_1;type:text;not null"`
	TestQuestionAnswer2      string `json:"test_question_answer_2" gorm:"column:test_question_answer_2;type:text;not null"`
	TestQuestionAnswer3      string `json:"test_question_answer_3" gorm:"column:test_question_answer_3;type:text;not null"`
	TestQuestionCorrectIndex int    `json:"test_question_correct_index" gorm:"column:test_question_correct_index;not null;check:chk_test_question_correct_index,test_question_correct_index BETWEEN 0 AND 3"`
	TestQuestionOrderIndex   int    `json:"test_question_order_index" gorm:"column:test_question_order_index;not null;uniqueIndex:uq_test_question_order,priority:2"`

	TestQuestionCreatedAt time.Time `json:"test_question_created_at" gorm:"column:test_question_created_at;autoCreateTime"`
	TestQuestionUpdatedAt time.Time `json:"test_question_updated_at" gorm:"column:test_question_updated_at;autoUpdateTime"`

	Test *TestModel `json:"-" gorm:"foreignKey:TestQuestionTestID;references:TestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (TestQuestionModel) TableName() string { return "test_questions" }

func (m *TestQuestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.TestQuestionID == uuid.Nil {
		m.TestQuestionID = uuid.New()
	}
	return nil
}

func (m *TestQuestionModel) Answers() [AnswerChoices]string {
	return [AnswerChoices]string{
		m.TestQuestionAnswer0,
		m.TestQuestionAnswer1,
		m.TestQuestionAnswer2,
		m.TestQuestionAnswer3,
	}
}

func (m *TestQuestionModel) SetAnswers(a [AnswerChoices]string) {
	m.TestQuestionAnswer0 = a[0]
	m.TestQuestionAnswer1 = a[1]
	m.TestQuestionAnswer2 = a[2]
	m.TestQuestionAnswer3 = a[3]
}
