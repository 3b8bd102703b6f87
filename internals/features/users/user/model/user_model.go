package model

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

// UserModel merepresentasikan tabel users (akun + status langganan)
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName string    `gorm:"size:50;not null" json:"user_name" validate:"required,min=3,max=50"`
	Email    string    `gorm:"size:255;uniqueIndex;not null" json:"email" validate:"required,email"`
	Password string    `gorm:"not null" json:"-" validate:"required,min=8"`
	GoogleID *string   `gorm:"size:255;uniqueIndex" json:"google_id,omitempty"`

	IsAdmin  bool `gorm:"not null;default:false" json:"is_admin"`
	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Normalize merapikan input sebelum validasi
func (u *UserModel) Normalize() {
	u.UserName = strings.TrimSpace(u.UserName)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

// Validate memeriksa apakah input sesuai aturan yang telah didefinisikan
func (u *UserModel) Validate() error {
	u.Normalize()
	if err := validate.Struct(u); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError mengubah error validasi menjadi format yang lebih jelas
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			msgs = append(msgs, fieldErr.Field()+" is required")
		case "email":
			msgs = append(msgs, "invalid email format")
		case "min":
			msgs = append(msgs, fieldErr.Field()+" must be at least "+fieldErr.Param()+" characters")
		case "max":
			msgs = append(msgs, fieldErr.Field()+" must be at most "+fieldErr.Param()+" characters")
		default:
			msgs = append(msgs, fieldErr.Field()+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
