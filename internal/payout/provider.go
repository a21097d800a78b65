package payout

import "context"

// Request instructs a transfer-out to a creator's payout destination.
// Amount is in decimal currency units.
type Request struct {
	WithdrawalID    string
	CreatorID       string
	Destination     string
	StripeAccountID string
	Amount          float64
}

// Provider executes transfer-out requests. A failed or unreachable
// provider must surface an error; it is never reported as settled.
type Provider interface {
	Transfer(ctx context.Context, req Request) (ref string, err error)
}

// StatusReporter is implemented by providers that settle asynchronously
// and can be polled for the outcome of a previous transfer.
type StatusReporter interface {
	TransferStatus(ctx context.Context, ref string) (string, error)
}

const (
	TransferSettled = "settled"
	TransferFailed  = "failed"
	TransferPending = "pending"
)
