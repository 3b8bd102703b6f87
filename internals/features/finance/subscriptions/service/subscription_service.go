package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"quizku_backend/internals/features/finance/subscriptions/model"
	userModel "quizku_backend/internals/features/users/user/model"
	userService "quizku_backend/internals/features/users/user/service"
)

var (
	ErrGatewayDisabled  = errors.New("payment gateway is not configured")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUserNotFound     = errors.New("user not found")
)

// Hasil pemrosesan notifikasi
const (
	NotifPaid      = "paid"
	NotifFailed    = "failed"
	NotifExpired   = "expired"
	NotifDuplicate = "duplicate"
	NotifIgnored   = "ignored"
)

type SubscriptionService struct {
	DB            *gorm.DB
	Snap          SnapCreator // nil → checkout 503
	ServerKey     string
	PricePerMonth int64
	Now           func() time.Time
}

func (s *SubscriptionService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

/* =========================================================
   Checkout
========================================================= */

// Checkout: order pending + Snap token. Gagal Snap → order ditandai failed.
func (s *SubscriptionService) Checkout(ctx context.Context, userID uuid.UUID, months int) (*model.SubscriptionOrderModel, error) {
	if s.Snap == nil {
		return nil, ErrGatewayDisabled
	}
	if months < userService.MinGrantMonths || months > userService.MaxGrantMonths {
		return nil, userService.ErrInvalidMonths
	}

	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).Select("id, user_name, email").First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := s.now()
	order := &model.SubscriptionOrderModel{
		SubscriptionOrderID:          fmt.Sprintf("SUB-%d", now.UnixNano()),
		SubscriptionOrderUserID:      userID,
		SubscriptionOrderMonths:      months,
		SubscriptionOrderGrossAmount: int64(months) * s.PricePerMonth,
		SubscriptionOrderStatus:      model.OrderPending,
	}
	if err := s.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}

	token, redirect, err := s.Snap.CreateSnap(order, CustomerInput{FirstName: u.UserName, Email: u.Email})
	if err != nil {
		log.Printf("[SUBSCRIPTION] snap gagal order=%s: %v", order.SubscriptionOrderID, err)
		if uerr := s.DB.WithContext(ctx).Model(order).Update("subscription_order_status", model.OrderFailed).Error; uerr != nil {
			log.Printf("[SUBSCRIPTION] tandai failed gagal order=%s: %v", order.SubscriptionOrderID, uerr)
		}
		return nil, fmt.Errorf("create snap transaction: %w", err)
	}

	order.SubscriptionOrderSnapToken = &token
	order.SubscriptionOrderRedirectURL = &redirect
	if err := s.DB.WithContext(ctx).Model(order).Updates(map[string]any{
		"subscription_order_snap_token":   token,
		"subscription_order_redirect_url": redirect,
	}).Error; err != nil {
		return nil, err
	}
	log.Printf("[SUBSCRIPTION] checkout order=%s user=%s months=%d amount=%d", order.SubscriptionOrderID, userID, months, order.SubscriptionOrderGrossAmount)
	return order, nil
}

// ListOrders: riwayat order milik user, terbaru dulu.
func (s *SubscriptionService) ListOrders(ctx context.Context, userID uuid.UUID) ([]model.SubscriptionOrderModel, error) {
	var rows []model.SubscriptionOrderModel
	err := s.DB.WithContext(ctx).
		Where("subscription_order_user_id = ?", userID).
		Order("subscription_order_created_at DESC").
		Find(&rows).Error
	return rows, err
}

/* =========================================================
   Webhook
========================================================= */

type Notification struct {
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"` // string dari Midtrans, mis. "50000.00"
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	TransactionID     string `json:"transaction_id"`
}

// SignatureFor: SHA512(order_id + status_code + gross_amount + server_key), hex.
func SignatureFor(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

func (s *SubscriptionService) VerifySignature(n Notification) error {
	if s.ServerKey == "" {
		return ErrGatewayDisabled
	}
	got := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	want := SignatureFor(n.OrderID, n.StatusCode, n.GrossAmount, s.ServerKey)
	if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

func parseGross(s string) (int64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return int64(f + 0.5), true
}

// HandleNotification menerapkan notifikasi Midtrans. pending → paid hanya sekali
// (conditional update); saat berhasil, langganan diperpanjang di transaksi yang sama.
func (s *SubscriptionService) HandleNotification(ctx context.Context, n Notification, raw []byte) (string, error) {
	if err := s.VerifySignature(n); err != nil {
		return "", err
	}

	var order model.SubscriptionOrderModel
	if err := s.DB.WithContext(ctx).First(&order, "subscription_order_id = ?", n.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[SUBSCRIPTION] notifikasi untuk order tidak dikenal %s", n.OrderID)
			return NotifIgnored, nil
		}
		return "", err
	}
	if gross, ok := parseGross(n.GrossAmount); !ok || gross != order.SubscriptionOrderGrossAmount {
		log.Printf("[SUBSCRIPTION] gross_amount tidak cocok order=%s got=%s want=%d", n.OrderID, n.GrossAmount, order.SubscriptionOrderGrossAmount)
		return NotifIgnored, nil
	}

	ts := strings.ToLower(n.TransactionStatus)
	fraud := strings.ToLower(n.FraudStatus)
	switch {
	case ts == "settlement", ts == "capture" && (fraud == "" || fraud == "accept"):
		return s.markPaid(ctx, &order, raw)
	case ts == "deny", ts == "cancel", ts == "failure":
		return s.markClosed(ctx, &order, model.OrderFailed, raw)
	case ts == "expire":
		return s.markClosed(ctx, &order, model.OrderExpired, raw)
	default:
		// pending / capture+challenge: tunggu notifikasi berikutnya
		return NotifIgnored, nil
	}
}

func (s *SubscriptionService) markPaid(ctx context.Context, order *model.SubscriptionOrderModel, raw []byte) (string, error) {
	now := s.now()
	result := NotifPaid
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.SubscriptionOrderModel{}).
			Where("subscription_order_id = ? AND subscription_order_status = ?", order.SubscriptionOrderID, model.OrderPending).
			Updates(map[string]any{
				"subscription_order_status":           model.OrderPaid,
				"subscription_order_paid_at":          now,
				"subscription_order_raw_notification": datatypes.JSON(raw),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			result = NotifDuplicate
			return nil
		}
		newEnd, err := userService.ExtendSubscriptionTx(tx, order.SubscriptionOrderUserID, order.SubscriptionOrderMonths, now)
		if err != nil {
			return err
		}
		log.Printf("[SUBSCRIPTION] order=%s paid, langganan user=%s sampai %s", order.SubscriptionOrderID, order.SubscriptionOrderUserID, newEnd.Format(time.RFC3339))
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func (s *SubscriptionService) markClosed(ctx context.Context, order *model.SubscriptionOrderModel, status model.OrderStatus, raw []byte) (string, error) {
	res := s.DB.WithContext(ctx).Model(&model.SubscriptionOrderModel{}).
		Where("subscription_order_id = ? AND subscription_order_status = ?", order.SubscriptionOrderID, model.OrderPending).
		Updates(map[string]any{
			"subscription_order_status":           status,
			"subscription_order_raw_notification": datatypes.JSON(raw),
		})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return NotifDuplicate, nil
	}
	return string(status), nil
}
