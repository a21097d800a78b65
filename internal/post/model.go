package post

import "time"

// Post is a piece of creator content. Paid posts hide MediaURL from
// viewers without an active subscription or a completed purchase.
type Post struct {
	ID          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	UserID      string
	Title       string
	Description string
	MediaURL    string
	IsPaid      bool
	Price       float64
}
