package user

import "time"

type User struct {
	ID           string `gorm:"primaryKey"`
	CreatedAt    time.Time
	Username     string
	Email        string
	PasswordHash string `json:"-"`
	Bio          string
	AvatarURL    string
	IsAdmin      bool
	IsCreator    bool
	Suspended    bool

	// Creator profile. BankAccount is the payout descriptor (a transfer
	// key or bank account reference); no withdrawal is authorized while
	// BankVerified is false.
	SubscriptionPrice float64
	StripeAccountID   string
	BankAccount       string
	BankVerified      bool
	AllowTips         bool
	MinimumTipAmount  float64
}
