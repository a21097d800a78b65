package withdrawal

import "time"

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	MethodInstantTransfer = "instant-transfer"
	MethodBankTransfer    = "bank-transfer"
)

// Withdrawal is a payout request against a creator's available balance.
// Lifecycle: pending -> processing -> completed, or pending -> failed.
// Every non-failed withdrawal counts against the balance.
type Withdrawal struct {
	ID            string `gorm:"primaryKey"`
	CreatedAt     time.Time
	CreatorID     string
	Amount        float64
	Status        string
	Method        string
	TransferRef   string
	FailureReason string
	CompletedAt   *time.Time
}
