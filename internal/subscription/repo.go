package subscription

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
)

// IsSubscriberAndPrice reports whether subscriberID has an active
// subscription to creatorID, and at which price.
func IsSubscriberAndPrice(subscriberID, creatorID string) (bool, *float64, error) {
	var sub Subscription
	err := database.DB.
		Where("subscriber_id = ? AND creator_id = ?", subscriberID, creatorID).
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, nil
		}
		return false, nil, err
	}

	return sub.Status == StatusActive, &sub.Price, nil
}

// Activate creates the subscription row, or reactivates the existing one
// when the pair already subscribed before. Keeps the one-row-per-pair
// invariant.
func Activate(subscriberID, creatorID, stripeSubscriptionID string, price float64, expiresAt *time.Time) (*Subscription, error) {
	var existing Subscription
	err := database.DB.
		Where("subscriber_id = ? AND creator_id = ?", subscriberID, creatorID).
		First(&existing).Error

	if err == nil {
		if existing.Status == StatusActive {
			return &existing, nil
		}
		existing.Status = StatusActive
		existing.StripeSubscriptionID = stripeSubscriptionID
		existing.Price = price
		existing.StartedAt = time.Now()
		existing.ExpiresAt = expiresAt
		if err := database.DB.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub := Subscription{
		ID:                   newID(),
		CreatedAt:            time.Now(),
		SubscriberID:         subscriberID,
		CreatorID:            creatorID,
		Status:               StatusActive,
		StripeSubscriptionID: stripeSubscriptionID,
		Price:                price,
		StartedAt:            time.Now(),
		ExpiresAt:            expiresAt,
	}
	if err := database.DB.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// ExpireLapsed flips active subscriptions whose service period has ended.
func ExpireLapsed(now time.Time) (int64, error) {
	res := database.DB.Model(&Subscription{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", StatusActive, now).
		Update("status", StatusExpired)
	return res.RowsAffected, res.Error
}
