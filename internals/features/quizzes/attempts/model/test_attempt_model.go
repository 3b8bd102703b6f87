package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	testModel "quizku_backend/internals/features/quizzes/tests/model"
	userModel "quizku_backend/internals/features/users/user/model"
)

/* =============================================================================
   ENUM-like: status attempt ('open','finalized')
============================================================================= */
type AttemptStatus string

const (
	AttemptOpen      AttemptStatus = "open"
	AttemptFinalized AttemptStatus = "finalized"
)

func (s AttemptStatus) Valid() bool {
	return s == AttemptOpen || s == AttemptFinalized
}

func (s *AttemptStatus) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*s = ""
		return nil
	case string:
		*s = AttemptStatus(v)
	case []byte:
		*s = AttemptStatus(string(v))
	default:
		return fmt.Errorf("unsupported type for AttemptStatus: %T", value)
	}
	if !s.Valid() {
		return fmt.Errorf("invalid AttemptStatus: %q", *s)
	}
	return nil
}

func (s AttemptStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid AttemptStatus: %q", s)
	}
	return string(s), nil
}

/* =============================================================================
   ENUM-like: alasan selesai ('submitted','timeout')
============================================================================= */
type FinishReason string

const (
	FinishSubmitted FinishReason = "submitted"
	FinishTimeout   FinishReason = "timeout"
)

func (r FinishReason) Valid() bool {
	return r == FinishSubmitted || r == FinishTimeout
}

// Unanswered: sentinel untuk soal yang tidak dijawab
const Unanswered = -1

/* =============================================================================
   MODEL: test_attempts
   open → finalized, satu kali. Setelah finalized tidak pernah diubah lagi.
============================================================================= */
type TestAttemptModel struct {
	TestAttemptID     uuid.UUID     `json:"test_attempt_id" gorm:"column:test_attempt_id;type:uuid;primaryKey"`
	TestAttemptUserID uuid.UUID     `json:"test_attempt_user_id" gorm:"column:test_attempt_user_id;type:uuid;not null;index:idx_test_attempt_user_completed,priority:1"`
	TestAttemptTestID uuid.UUID     `json:"test_attempt_test_id" gorm:"column:test_attempt_test_id;type:uuid;not null;index"`
	TestAttemptStatus AttemptStatus `json:"test_attempt_status" gorm:"column:test_attempt_status;type:varchar(16);not null;index:idx_test_attempt_status_deadline,priority:1"`

	TestAttemptStartedAt   time.Time  `json:"test_attempt_started_at" gorm:"column:test_attempt_started_at;not null"`
	TestAttemptDeadlineAt  time.Time  `json:"test_attempt_deadline_at" gorm:"column:test_attempt_deadline_at;not null;index:idx_test_attempt_status_deadline,priority:2"`
	TestAttemptCompletedAt *time.Time `json:"test_attempt_completed_at,omitempty" gorm:"column:test_attempt_completed_at;index:idx_test_attempt_user_completed,priority:2"`

	TestAttemptTimeSpentSec int           `json:"test_attempt_time_spent_sec" gorm:"column:test_attempt_time_spent_sec;not null;default:0"`
	TestAttemptScore        int           `json:"test_attempt_score" gorm:"column:test_attempt_score;not null;default:0"`
	TestAttemptPassed       bool          `json:"test_attempt_passed" gorm:"column:test_attempt_passed;not null;default:false"`
	TestAttemptFinishReason *FinishReason `json:"test_attempt_finish_reason,omitempty" gorm:"column:test_attempt_finish_reason;type:varchar(16)"`

	// jawaban sementara selama attempt masih open: {"<question_id>": 2}
	TestAttemptDraftAnswers datatypes.JSON `json:"test_attempt_draft_answers,omitempty" gorm:"column:test_attempt_draft_answers"`

	TestAttemptCreatedAt time.Time `json:"test_attempt_created_at" gorm:"column:test_attempt_created_at;autoCreateTime"`
	TestAttemptUpdatedAt time.Time `json:"test_attempt_updated_at" gorm:"column:test_attempt_updated_at;autoUpdateTime"`

	User *userModel.UserModel `json:"-" gorm:"foreignKey:TestAttemptUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Test *testModel.TestModel `json:"-" gorm:"foreignKey:TestAttemptTestID;references:TestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (TestAttemptModel) TableName() string { return "test_attempts" }

func (m *TestAttemptModel) BeforeCreate(tx *gorm.DB) error {
	if m.TestAttemptID == uuid.Nil {
		m.TestAttemptID = uuid.New()
	}
	if m.TestAttemptStatus == "" {
		m.TestAttemptStatus = AttemptOpen
	}
	return nil
}

func (m *TestAttemptModel) IsFinalized() bool {
	return m.TestAttemptCompletedAt != nil || m.TestAttemptStatus == AttemptFinalized
}

// Drafts: decode draft_answers; JSON rusak/kosong → map kosong.
func (m *TestAttemptModel) Drafts() map[uuid.UUID]int {
	out := map[uuid.UUID]int{}
	if len(m.TestAttemptDraftAnswers) == 0 {
		return out
	}
	raw := map[string]int{}
	if err := json.Unmarshal(m.TestAttemptDraftAnswers, &raw); err != nil {
		return out
	}
	for k, v := range raw {
		if id, err := uuid.Parse(k); err == nil {
			out[id] = v
		}
	}
	return out
}

func EncodeDrafts(d map[uuid.UUID]int) datatypes.JSON {
	raw := make(map[string]int, len(d))
	for k, v := range d {
		raw[k.String()] = v
	}
	b, _ := json.Marshal(raw)
	return datatypes.JSON(b)
}
