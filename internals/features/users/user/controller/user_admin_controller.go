package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quizku_backend/internals/features/users/user/dto"
	userService "quizku_backend/internals/features/users/user/service"
	helper "quizku_backend/internals/helpers"
)

type AdminUserController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Now      func() time.Time
}

func NewAdminUserController(db *gorm.DB) *AdminUserController {
	return &AdminUserController{DB: db, Validate: helper.NewValidator(), Now: time.Now}
}

const msgSelfDemotion = "Cannot remove your own admin status. Ask another admin to do it."

func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, userService.ErrUserNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, userService.ErrSelfDemotion):
		return helper.JsonError(c, fiber.StatusBadRequest, msgSelfDemotion)
	case errors.Is(err, userService.ErrInvalidMonths):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
}

// GET /api/a/users
func (uc *AdminUserController) GetUsers(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	items, total, err := userService.ListUsersWithStats(c.UserContext(), uc.DB, p.Limit(), p.Offset())
	if err != nil {
		log.Println("[ERROR] Failed to fetch users:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve users")
	}

	log.Printf("[SUCCESS] Retrieved %d users\n", len(items))
	return helper.JsonList(c, "Users fetched successfully", items, helper.BuildPagination(total, p))
}

// POST /api/a/grant-subscription
func (uc *AdminUserController) GrantSubscription(c *fiber.Ctx) error {
	var req dto.GrantSubscriptionRequest
	if ok, err := helper.BindAndValidate(c, uc.Validate, &req); !ok {
		return err
	}

	newEnd, err := userService.GrantSubscription(c.UserContext(), uc.DB, req.UserID, req.Months, uc.Now())
	if err != nil {
		log.Printf("[ERROR] grant-subscription user=%s months=%d: %v", req.UserID, req.Months, err)
		return writeServiceError(c, err)
	}

	log.Printf("[INFO] grant-subscription user=%s months=%d ends=%s", req.UserID, req.Months, newEnd.Format(time.RFC3339))
	return helper.JsonOK(c, "Subscription granted", fiber.Map{
		"user_id":              req.UserID,
		"subscription_ends_at": newEnd,
	})
}

// POST /api/a/toggle-admin
func (uc *AdminUserController) ToggleAdmin(c *fiber.Ctx) error {
	callerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	var req dto.ToggleAdminRequest
	if ok, err := helper.BindAndValidate(c, uc.Validate, &req); !ok {
		return err
	}

	if err := userService.SetAdmin(c.UserContext(), uc.DB, callerID, req.UserID, *req.IsAdmin); err != nil {
		if !errors.Is(err, userService.ErrSelfDemotion) {
			log.Printf("[ERROR] toggle-admin user=%s: %v", req.UserID, err)
		}
		return writeServiceError(c, err)
	}

	log.Printf("[INFO] toggle-admin user=%s is_admin=%v by=%s", req.UserID, *req.IsAdmin, callerID)
	return helper.JsonOK(c, "Admin status updated", fiber.Map{
		"user_id":  req.UserID,
		"is_admin": *req.IsAdmin,
	})
}
