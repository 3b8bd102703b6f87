package dto

import (
	"time"

	"github.com/google/uuid"

	"quizku_backend/internals/features/quizzes/attempts/model"
)

/* ===================== REQUEST ===================== */

type StartAttemptRequest struct {
	TestID uuid.UUID `json:"test_id" form:"test_id" validate:"required"`
}

type SaveDraftRequest struct {
	QuestionID    uuid.UUID `json:"question_id" validate:"required"`
	SelectedIndex *int      `json:"selected_index" validate:"required,min=-1,max=3"`
}

// SubmitAttemptRequest: {"answers": {"<question_id>": 2}}. Soal yang tidak ada → draft atau -1.
type SubmitAttemptRequest struct {
	Answers map[string]int `json:"answers"`
}

// ParseAnswers: key harus UUID, nilai -1..3.
func (r SubmitAttemptRequest) ParseAnswers() (map[uuid.UUID]int, map[string][]string) {
	out := make(map[uuid.UUID]int, len(r.Answers))
	errs := map[string][]string{}
	for k, v := range r.Answers {
		id, err := uuid.Parse(k)
		if err != nil {
			errs["answers."+k] = append(errs["answers."+k], "uuid")
			continue
		}
		if v < model.Unanswered || v > 3 {
			errs["answers."+k] = append(errs["answers."+k], "min=-1,max=3")
			continue
		}
		out[id] = v
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

/* ===================== RESPONSE ===================== */

type StartAttemptResponse struct {
	TestAttemptID uuid.UUID `json:"test_attempt_id"`
	TestID        uuid.UUID `json:"test_id"`
	StartedAt     time.Time `json:"started_at"`
	DeadlineAt    time.Time `json:"deadline_at"`
	TimeLimitSec  int       `json:"time_limit_sec"`
}

// AttemptQuestionView: satu soal di halaman attempt/hasil.
// CorrectIndex & IsCorrect hanya diisi setelah attempt final.
type AttemptQuestionView struct {
	QuestionID    uuid.UUID `json:"question_id"`
	OrderIndex    int       `json:"order_index"`
	Text          string    `json:"text"`
	ImageURL      *string   `json:"image_url,omitempty"`
	Answers       []string  `json:"answers"`
	SelectedIndex int       `json:"selected_index"`
	CorrectIndex  *int      `json:"correct_index,omitempty"`
	IsCorrect     *bool     `json:"is_correct,omitempty"`
}

// Selected: helper template (index pilihan == i)
func (v AttemptQuestionView) Selected(i int) bool { return v.SelectedIndex == i }

// Correct: helper template (index benar == i)
func (v AttemptQuestionView) Correct(i int) bool {
	return v.CorrectIndex != nil && *v.CorrectIndex == i
}

type AttemptDetail struct {
	TestAttemptID uuid.UUID           `json:"test_attempt_id"`
	TestID        uuid.UUID           `json:"test_id"`
	TestTitle     string              `json:"test_title"`
	CategoryName  string              `json:"category_name"`
	Status        model.AttemptStatus `json:"status"`
	TimeLimitSec  int                 `json:"time_limit_sec"`
	StartedAt     time.Time           `json:"started_at"`
	DeadlineAt    time.Time           `json:"deadline_at"`
	RemainingSec  int                 `json:"remaining_sec"`

	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	TimeSpentSec int                 `json:"time_spent_sec"`
	Score        int                 `json:"score"`
	Passed       bool                `json:"passed"`
	FinishReason *model.FinishReason `json:"finish_reason,omitempty"`
	CorrectCount int                 `json:"correct_count"`
	Total        int                 `json:"total"`

	Questions []AttemptQuestionView `json:"questions"`
}

func (d AttemptDetail) Finalized() bool { return d.Status == model.AttemptFinalized }

func (d AttemptDetail) TimedOut() bool {
	return d.FinishReason != nil && *d.FinishReason == model.FinishTimeout
}

type AttemptHistoryItem struct {
	TestAttemptID uuid.UUID           `json:"test_attempt_id"`
	TestID        uuid.UUID           `json:"test_id"`
	TestTitle     string              `json:"test_title"`
	CategoryName  string              `json:"category_name"`
	Score         int                 `json:"score"`
	Passed        bool                `json:"passed"`
	TimeSpentSec  int                 `json:"time_spent_sec"`
	FinishReason  *model.FinishReason `json:"finish_reason,omitempty"`
	CompletedAt   time.Time           `json:"completed_at"`
}
