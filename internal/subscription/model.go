package subscription

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Subscription links a subscriber to a creator. At most one row exists
// per (subscriber, creator) pair; renewals and resubscriptions reuse it.
type Subscription struct {
	ID                   string `gorm:"primaryKey"`
	CreatedAt            time.Time
	SubscriberID         string
	CreatorID            string
	Status               string
	StripeSubscriptionID string
	Price                float64
	StartedAt            time.Time
	ExpiresAt            *time.Time
}

func newID() string {
	return uuid.New().String()
}
