package auth

import (
	"github.com/gofiber/fiber/v2"

	"quizku_backend/internals/constants"
	access "quizku_backend/internals/features/access/service"
	helper "quizku_backend/internals/helpers"
)

// RequireCapability dipasang setelah AuthMiddleware.
// 401 kalau belum ada identitas, 403 kalau capability tidak dimiliki.
func RequireCapability(capability access.Capability, forbiddenMessage string) fiber.Handler {
	if forbiddenMessage == "" {
		forbiddenMessage = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		st, ok := AccessStatusFrom(c)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - login required")
		}
		if !access.Can(st, capability) {
			return helper.JsonError(c, fiber.StatusForbidden, forbiddenMessage)
		}
		return c.Next()
	}
}

// OnlyAdmin: shortcut untuk seluruh /api/a
func OnlyAdmin() fiber.Handler {
	return RequireCapability(access.CapManageContent, constants.RoleErrorAdmin("admin"))
}
