package payout

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/transfer"
)

// StripeTransfer moves funds to a creator's connected Stripe account.
// Used for bank-transfer withdrawals; Stripe settles them on its own
// payout schedule, so the transfer reference is reconciled later.
type StripeTransfer struct {
	Key      string
	Currency string
}

func NewStripeTransfer(secretKey string) *StripeTransfer {
	return &StripeTransfer{Key: secretKey, Currency: "brl"}
}

func (s *StripeTransfer) Transfer(ctx context.Context, req Request) (string, error) {
	stripe.Key = s.Key

	if req.StripeAccountID == "" {
		return "", fmt.Errorf("creator %s has no connected Stripe account", req.CreatorID)
	}

	params := &stripe.TransferParams{
		Amount:      stripe.Int64(int64(math.Round(req.Amount * 100))),
		Currency:    stripe.String(s.Currency),
		Destination: stripe.String(req.StripeAccountID),
	}
	params.Context = ctx
	params.AddMetadata("withdrawal_id", req.WithdrawalID)

	t, err := transfer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe transfer: %w", err)
	}
	return t.ID, nil
}
