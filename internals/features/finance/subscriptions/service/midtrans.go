package service

import (
	"errors"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"quizku_backend/internals/features/finance/subscriptions/model"
)

/* =========================================================
   Midtrans Snap
========================================================= */

type CustomerInput struct {
	FirstName string
	Email     string
}

// SnapCreator: pembuat transaksi Snap. Di test diganti fake.
type SnapCreator interface {
	CreateSnap(order *model.SubscriptionOrderModel, cust CustomerInput) (token, redirectURL string, err error)
}

type MidtransSnap struct {
	client snap.Client
}

// NewMidtransSnap: useProduction=false → Sandbox.
func NewMidtransSnap(serverKey string, useProduction bool) *MidtransSnap {
	s := &MidtransSnap{}
	if useProduction {
		s.client.New(serverKey, midtrans.Production)
	} else {
		s.client.New(serverKey, midtrans.Sandbox)
	}
	return s
}

func (s *MidtransSnap) CreateSnap(order *model.SubscriptionOrderModel, cust CustomerInput) (string, string, error) {
	if order.SubscriptionOrderGrossAmount <= 0 {
		return "", "", errors.New("invalid gross amount")
	}
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.SubscriptionOrderID,
			GrossAmt: order.SubscriptionOrderGrossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			Email: cust.Email,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       order.SubscriptionOrderID,
			Price:    order.SubscriptionOrderGrossAmount / int64(order.SubscriptionOrderMonths),
			Qty:      int32(order.SubscriptionOrderMonths),
			Name:     "Langganan Quizku (bulan)",
			Category: "SUBSCRIPTION",
		}},
	}

	resp, mErr := s.client.CreateTransaction(req)
	if mErr != nil {
		return "", "", mErr
	}
	return resp.Token, resp.RedirectURL, nil
}
