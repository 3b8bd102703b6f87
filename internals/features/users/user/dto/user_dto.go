package dto

import (
	"time"

	"github.com/google/uuid"

	uModel "quizku_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// GrantSubscriptionRequest: POST /api/a/grant-subscription
type GrantSubscriptionRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Months int       `json:"months" validate:"required,min=1,max=120"`
}

// ToggleAdminRequest: POST /api/a/toggle-admin
// IsAdmin pointer supaya "false" tidak dianggap kosong oleh validator.
type ToggleAdminRequest struct {
	UserID  uuid.UUID `json:"user_id" validate:"required"`
	IsAdmin *bool     `json:"is_admin" validate:"required"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

// UserResponse: data akun tanpa field sensitif
type UserResponse struct {
	ID                 uuid.UUID  `json:"id"`
	UserName           string     `json:"user_name"`
	Email              string     `json:"email"`
	IsAdmin            bool       `json:"is_admin"`
	IsActive           bool       `json:"is_active"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func FromModel(u *uModel.UserModel) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		UserName:           u.UserName,
		Email:              u.Email,
		IsAdmin:            u.IsAdmin,
		IsActive:           u.IsActive,
		TrialEndsAt:        u.TrialEndsAt,
		SubscriptionEndsAt: u.SubscriptionEndsAt,
		CreatedAt:          u.CreatedAt,
	}
}

// UserAdminItem: baris di halaman admin users (akun + statistik attempt)
type UserAdminItem struct {
	UserResponse
	TotalAttempts  int64 `json:"total_attempts"`
	PassedAttempts int64 `json:"passed_attempts"`
	AverageScore   int   `json:"average_score"`
}
