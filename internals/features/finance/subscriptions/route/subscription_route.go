package route

import (
	"github.com/gofiber/fiber/v2"

	subsController "quizku_backend/internals/features/finance/subscriptions/controller"
	"quizku_backend/internals/features/finance/subscriptions/service"
)

// SubscriptionUserRoutes: /api/u/subscriptions
func SubscriptionUserRoutes(user fiber.Router, svc *service.SubscriptionService) {
	ctrl := subsController.NewSubscriptionController(svc)
	g := user.Group("/subscriptions")
	g.Post("/checkout", ctrl.Checkout)
	g.Get("/orders", ctrl.ListMyOrders)
}

// SubscriptionPublicRoutes: webhook Midtrans di /api/subscriptions/notification
func SubscriptionPublicRoutes(api fiber.Router, svc *service.SubscriptionService) {
	ctrl := subsController.NewSubscriptionController(svc)
	api.Post("/subscriptions/notification", ctrl.Notification)
}
