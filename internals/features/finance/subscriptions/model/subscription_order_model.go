package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
	OrderExpired OrderStatus = "expired"
)

// SubscriptionOrderModel: satu checkout Midtrans Snap untuk N bulan langganan
type SubscriptionOrderModel struct {
	SubscriptionOrderID          string         `json:"subscription_order_id" gorm:"column:subscription_order_id;size:64;primaryKey"`
	SubscriptionOrderUserID      uuid.UUID      `json:"subscription_order_user_id" gorm:"column:subscription_order_user_id;type:uuid;not null;index"`
	SubscriptionOrderMonths      int            `json:"subscription_order_months" gorm:"column:subscription_order_months;not null"`
	SubscriptionOrderGrossAmount int64          `json:"subscription_order_gross_amount" gorm:"column:subscription_order_gross_amount;not null"`
	SubscriptionOrderStatus      OrderStatus    `json:"subscription_order_status" gorm:"column:subscription_order_status;type:varchar(16);not null;index"`
	SubscriptionOrderSnapToken   *string        `json:"subscription_order_snap_token,omitempty" gorm:"column:subscription_order_snap_token;size:255"`
	SubscriptionOrderRedirectURL *string        `json:"subscription_order_redirect_url,omitempty" gorm:"column:subscription_order_redirect_url;type:text"`
	SubscriptionOrderPaidAt      *time.Time     `json:"subscription_order_paid_at,omitempty" gorm:"column:subscription_order_paid_at"`
	SubscriptionOrderRawNotif    datatypes.JSON `json:"-" gorm:"column:subscription_order_raw_notification"`

	SubscriptionOrderCreatedAt time.Time `json:"subscription_order_created_at" gorm:"column:subscription_order_created_at;autoCreateTime"`
	SubscriptionOrderUpdatedAt time.Time `json:"subscription_order_updated_at" gorm:"column:subscription_order_updated_at;autoUpdateTime"`
}

func (SubscriptionOrderModel) TableName() string { return "subscription_orders" }
