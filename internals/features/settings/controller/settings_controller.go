package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	database "quizku_backend/internals/databases"
	"quizku_backend/internals/features/settings/service"
	helper "quizku_backend/internals/helpers"
)

type UpdateSettingRequest struct {
	Key   string `json:"key" validate:"required,max=100"`
	Value string `json:"value" validate:"required,max=1000"`
}

type SettingsController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Now      func() time.Time
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{
		DB:       db,
		Validate: helper.NewValidator(),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// GET /api/a/settings
func (sc *SettingsController) Get(c *fiber.Ctx) error {
	return helper.JsonOK(c, "Pengaturan aplikasi", service.Load(c.UserContext(), sc.DB))
}

// POST /api/a/update-settings {key, value}
func (sc *SettingsController) Update(c *fiber.Ctx) error {
	callerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req UpdateSettingRequest
	if ok, err := helper.BindAndValidate(c, sc.Validate, &req); !ok {
		return err
	}

	if _, err := service.Upsert(c.UserContext(), sc.DB, req.Key, req.Value, callerID, sc.Now()); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownKey):
			return helper.JsonError(c, fiber.StatusBadRequest, "Unknown setting key: "+req.Key)
		case errors.Is(err, service.ErrInvalidValue):
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid value for "+req.Key)
		case errors.Is(err, database.ErrWriteForbidden):
			return helper.JsonError(c, fiber.StatusForbidden, "Forbidden - admin only")
		default:
			log.Printf("[SETTINGS] update %s gagal: %v", req.Key, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update setting")
		}
	}
	return helper.JsonOK(c, "Setting updated", nil)
}
