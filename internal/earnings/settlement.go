package earnings

import "time"

type SettlementStatus string

const (
	// SettlementHeld means the funds are still inside the hold period
	// and cannot be withdrawn yet.
	SettlementHeld SettlementStatus = "pending"
	// SettlementAvailable means the hold period has elapsed.
	SettlementAvailable SettlementStatus = "available"
)

// Classifier buckets completed transactions by settlement age. The hold
// period models chargeback risk: funds only become withdrawable once a
// completed payment has aged past it.
type Classifier struct {
	hold time.Duration
}

func NewClassifier(hold time.Duration) Classifier {
	return Classifier{hold: hold}
}

// Classify is pure and total: every completed transaction is either held
// or available, and a transaction available at T stays available at any
// later T.
func (cl Classifier) Classify(completedAt, now time.Time) SettlementStatus {
	if now.Sub(completedAt) < cl.hold {
		return SettlementHeld
	}
	return SettlementAvailable
}
