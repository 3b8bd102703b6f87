package dto

import (
	"time"

	"github.com/google/uuid"
)

type RecentAttempt struct {
	TestAttemptID uuid.UUID `json:"test_attempt_id"`
	UserEmail     string    `json:"user_email"`
	TestTitle     string    `json:"test_title"`
	Score         int       `json:"score"`
	Passed        bool      `json:"passed"`
	CompletedAt   time.Time `json:"completed_at"`
}

type AdminStats struct {
	TotalUsers        int64           `json:"total_users"`
	TotalTests        int64           `json:"total_tests"`
	TotalCategories   int64           `json:"total_categories"`
	CompletedAttempts int64           `json:"completed_attempts"`
	RecentAttempts    []RecentAttempt `json:"recent_attempts"`
}
