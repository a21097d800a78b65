package ledger

import (
	"time"

	"gorm.io/gorm"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/subscription"
)

// Window restricts a read to [Start, End). Nil bounds are open.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// CheckCreator returns ErrCreatorNotFound when no creator row exists.
// An empty ledger for a valid creator is not an error.
func CheckCreator(db *gorm.DB, creatorID string) error {
	var count int64
	if err := db.Table("users").Where("id = ? AND is_creator = true", creatorID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCreatorNotFound
	}
	return nil
}

// ActiveSubscriptions returns the creator's currently active subscriptions.
func ActiveSubscriptions(db *gorm.DB, creatorID string) ([]subscription.Subscription, error) {
	var subs []subscription.Subscription
	err := db.
		Where("creator_id = ? AND status = ?", creatorID, subscription.StatusActive).
		Find(&subs).Error
	return subs, err
}

// CompletedTransactions returns the creator's completed transactions,
// window-filtered on CompletedAt.
func CompletedTransactions(db *gorm.DB, creatorID string, window Window) ([]Transaction, error) {
	q := db.
		Where("creator_id = ? AND status = ?", creatorID, StatusCompleted).
		Order("completed_at ASC")
	if window.Start != nil {
		q = q.Where("completed_at >= ?", *window.Start)
	}
	if window.End != nil {
		q = q.Where("completed_at < ?", *window.End)
	}

	var txns []Transaction
	err := q.Find(&txns).Error
	return txns, err
}

// MarkCompleted flips a pending transaction to completed. Transactions
// already settled one way or the other are left untouched.
func MarkCompleted(db *gorm.DB, transactionID, stripePaymentID string, completedAt time.Time) error {
	return db.Model(&Transaction{}).
		Where("id = ? AND status = ?", transactionID, StatusPending).
		Updates(map[string]interface{}{
			"status":            StatusCompleted,
			"stripe_payment_id": stripePaymentID,
			"completed_at":      completedAt,
		}).Error
}

// MarkFailed flips a pending transaction to failed with a reason.
func MarkFailed(db *gorm.DB, transactionID, reason string) error {
	return db.Model(&Transaction{}).
		Where("id = ? AND status = ?", transactionID, StatusPending).
		Updates(map[string]interface{}{
			"status":         StatusFailed,
			"failure_reason": reason,
		}).Error
}

// HasCompletedPurchase reports whether payerID completed a content
// purchase for the given post.
func HasCompletedPurchase(db *gorm.DB, payerID, postID string) (bool, error) {
	var count int64
	err := db.Model(&Transaction{}).
		Where("payer_id = ? AND post_id = ? AND kind = ? AND status = ?",
			payerID, postID, KindContent, StatusCompleted).
		Count(&count).Error
	return count > 0, err
}
