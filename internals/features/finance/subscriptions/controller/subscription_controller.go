package controller

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"quizku_backend/internals/features/finance/subscriptions/dto"
	"quizku_backend/internals/features/finance/subscriptions/service"
	userService "quizku_backend/internals/features/users/user/service"
	helper "quizku_backend/internals/helpers"
)

type SubscriptionController struct {
	Svc      *service.SubscriptionService
	Validate *validator.Validate
}

func NewSubscriptionController(svc *service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{Svc: svc, Validate: helper.NewValidator()}
}

// POST /api/u/subscriptions/checkout {months}
func (h *SubscriptionController) Checkout(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CheckoutRequest
	if ok, err := helper.BindAndValidate(c, h.Validate, &req); !ok {
		return err
	}

	order, err := h.Svc.Checkout(c.UserContext(), userID, req.Months)
	switch {
	case err == nil:
		return helper.JsonCreated(c, "Checkout dibuat", dto.FromCheckout(order))
	case errors.Is(err, service.ErrGatewayDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Pembayaran belum tersedia")
	case errors.Is(err, userService.ErrInvalidMonths):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - user not found")
	default:
		log.Printf("[SUBSCRIPTION] checkout gagal: %v", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal membuat transaksi pembayaran")
	}
}

// GET /api/u/subscriptions/orders
func (h *SubscriptionController) ListMyOrders(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := h.Svc.ListOrders(c.UserContext(), userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat order")
	}
	return helper.JsonList(c, "Riwayat order langganan", dto.FromOrders(rows), nil)
}

// POST /api/subscriptions/notification (webhook Midtrans, publik)
func (h *SubscriptionController) Notification(c *fiber.Ctx) error {
	raw := append([]byte(nil), c.Body()...)
	var notif service.Notification
	if err := json.Unmarshal(raw, &notif); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.Svc.HandleNotification(c.UserContext(), notif, raw)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"status": "ok", "result": result, "order_id": notif.OrderID})
	case errors.Is(err, service.ErrInvalidSignature):
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
	case errors.Is(err, service.ErrGatewayDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "payment gateway not configured")
	default:
		log.Printf("[SUBSCRIPTION] webhook gagal order=%s: %v", notif.OrderID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "update order failed")
	}
}
