package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	access "quizku_backend/internals/features/access/service"
	settingsService "quizku_backend/internals/features/settings/service"
	helper "quizku_backend/internals/helpers"
	authMiddleware "quizku_backend/internals/middlewares/auth"
)

// AccessMeResponse: data banner langganan di dashboard.
type AccessMeResponse struct {
	access.AccessStatus
	TelegramAdminUsername string `json:"telegram_admin_username"`
}

type AccessController struct {
	DB *gorm.DB
}

func NewAccessController(db *gorm.DB) *AccessController {
	return &AccessController{DB: db}
}

// GET /api/u/access/me
func (ac *AccessController) Me(c *fiber.Ctx) error {
	st, ok := authMiddleware.AccessStatusFrom(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - login required")
	}
	settings := settingsService.Load(c.UserContext(), ac.DB)
	return helper.JsonOK(c, "Status akses", AccessMeResponse{
		AccessStatus:          st,
		TelegramAdminUsername: settings.TelegramAdminUsername,
	})
}
