package dto

import (
	"time"

	"quizku_backend/internals/features/finance/subscriptions/model"
)

type CheckoutRequest struct {
	Months int `json:"months" form:"months" validate:"required,min=1,max=120"`
}

type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	Months      int    `json:"months"`
	GrossAmount int64  `json:"gross_amount"`
	SnapToken   string `json:"snap_token"`
	RedirectURL string `json:"redirect_url"`
}

func FromCheckout(m *model.SubscriptionOrderModel) CheckoutResponse {
	out := CheckoutResponse{
		OrderID:     m.SubscriptionOrderID,
		Months:      m.SubscriptionOrderMonths,
		GrossAmount: m.SubscriptionOrderGrossAmount,
	}
	if m.SubscriptionOrderSnapToken != nil {
		out.SnapToken = *m.SubscriptionOrderSnapToken
	}
	if m.SubscriptionOrderRedirectURL != nil {
		out.RedirectURL = *m.SubscriptionOrderRedirectURL
	}
	return out
}

type OrderResponse struct {
	OrderID     string            `json:"order_id"`
	Months      int               `json:"months"`
	GrossAmount int64             `json:"gross_amount"`
	Status      model.OrderStatus `json:"status"`
	PaidAt      *time.Time        `json:"paid_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func FromOrders(rows []model.SubscriptionOrderModel) []OrderResponse {
	out := make([]OrderResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, OrderResponse{
			OrderID:     r.SubscriptionOrderID,
			Months:      r.SubscriptionOrderMonths,
			GrossAmount: r.SubscriptionOrderGrossAmount,
			Status:      r.SubscriptionOrderStatus,
			PaidAt:      r.SubscriptionOrderPaidAt,
			CreatedAt:   r.SubscriptionOrderCreatedAt,
		})
	}
	return out
}
