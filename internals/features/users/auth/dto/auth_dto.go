package dto

import "strings"

type RegisterRequest struct {
	UserName string `json:"user_name" form:"user_name" validate:"required,min=3,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

func (r *RegisterRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// LoginRequest: identifier = email atau user_name
type LoginRequest struct {
	Identifier string `json:"identifier" form:"identifier" validate:"required"`
	Password   string `json:"password" form:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
