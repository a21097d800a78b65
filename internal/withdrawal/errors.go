package withdrawal

import "errors"

var (
	ErrBankNotVerified     = errors.New("bank account not verified")
	ErrInsufficientBalance = errors.New("insufficient available balance")
	ErrInvalidAmount       = errors.New("invalid withdrawal amount")
	// ErrProviderUnavailable means the payout attempt failed after the
	// withdrawal record was created; the request is retryable.
	ErrProviderUnavailable = errors.New("payout provider unavailable")
)
