package ledger

import "time"

const (
	KindSubscription = "subscription"
	KindContent      = "content"
	KindTip          = "tip"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Transaction is one charge against a payer in favor of a creator.
// Amounts are gross, in decimal currency units; the platform fee is
// applied at read time, never stored. Once completed or failed a
// transaction is immutable.
type Transaction struct {
	ID              string `gorm:"primaryKey"`
	CreatedAt       time.Time
	CreatorID       string
	PayerID         string
	Kind            string
	Amount          float64
	Status          string
	StripePaymentID string
	PostID          string
	CompletedAt     *time.Time
	FailureReason   string
}
