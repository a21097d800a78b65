package withdrawal

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/earnings"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/ledger"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/payout"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/user"
)

// Authorizer validates and records payout requests. The balance check
// and the insert run in one transaction holding a row lock on the
// creator, so concurrent requests from the same creator serialize and
// cannot both spend the same funds.
type Authorizer struct {
	Earnings *earnings.Service
	Instant  payout.Provider
}

func NewAuthorizer(svc *earnings.Service, instant payout.Provider) *Authorizer {
	return &Authorizer{Earnings: svc, Instant: instant}
}

// Balance is the creator's withdrawable amount: net funds past the hold
// period minus all non-failed prior withdrawals.
func (a *Authorizer) Balance(creatorID string, now time.Time) (float64, error) {
	if err := ledger.CheckCreator(database.DB, creatorID); err != nil {
		return 0, err
	}
	return a.balance(database.DB, creatorID, now)
}

func (a *Authorizer) balance(db *gorm.DB, creatorID string, now time.Time) (float64, error) {
	available, err := a.Earnings.AvailableFunds(db, creatorID, now)
	if err != nil {
		return 0, err
	}

	var withdrawn float64
	if err := db.Model(&Withdrawal{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("creator_id = ? AND status <> ?", creatorID, StatusFailed).
		Scan(&withdrawn).Error; err != nil {
		return 0, err
	}

	return math.Round((available-withdrawn)*100) / 100, nil
}

// Create authorizes and persists a withdrawal, then attempts immediate
// settlement for instant-transfer requests. The returned record is
// non-nil whenever a row was persisted, including the failed-payout
// case, where the error is ErrProviderUnavailable.
func (a *Authorizer) Create(ctx context.Context, creatorID string, amount float64, method string) (*Withdrawal, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	var creator user.User
	var created Withdrawal

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&creator, "id = ?", creatorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledger.ErrCreatorNotFound
			}
			return err
		}

		if creator.BankAccount == "" || !creator.BankVerified {
			return ErrBankNotVerified
		}

		balance, err := a.balance(tx, creatorID, now)
		if err != nil {
			return err
		}
		if amount > balance {
			return ErrInsufficientBalance
		}

		created = Withdrawal{
			ID:        uuid.New().String(),
			CreatedAt: now,
			CreatorID: creatorID,
			Amount:    amount,
			Status:    StatusPending,
			Method:    method,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}

	if method == MethodInstantTransfer {
		if err := a.settleInstant(ctx, &created, creator); err != nil {
			return &created, err
		}
	}

	return &created, nil
}

// settleInstant attempts synchronous settlement. On provider failure the
// withdrawal is marked failed with the reason; the create itself stands.
func (a *Authorizer) settleInstant(ctx context.Context, w *Withdrawal, creator user.User) error {
	ref, err := a.Instant.Transfer(ctx, payout.Request{
		WithdrawalID:    w.ID,
		CreatorID:       w.CreatorID,
		Destination:     creator.BankAccount,
		StripeAccountID: creator.StripeAccountID,
		Amount:          w.Amount,
	})
	if err != nil {
		logs.LogJSON("ERROR", "Instant payout failed", map[string]interface{}{
			"error":        err.Error(),
			"withdrawalID": w.ID,
			"creatorID":    w.CreatorID,
		})
		if uerr := database.DB.Model(w).Updates(map[string]interface{}{
			"status":         StatusFailed,
			"failure_reason": err.Error(),
		}).Error; uerr != nil {
			return uerr
		}
		w.Status = StatusFailed
		w.FailureReason = err.Error()
		return ErrProviderUnavailable
	}

	completedAt := time.Now()
	if err := database.DB.Model(w).Updates(map[string]interface{}{
		"status":       StatusCompleted,
		"transfer_ref": ref,
		"completed_at": completedAt,
	}).Error; err != nil {
		return err
	}
	w.Status = StatusCompleted
	w.TransferRef = ref
	w.CompletedAt = &completedAt

	logs.LogJSON("INFO", "Instant payout settled", map[string]interface{}{
		"withdrawalID": w.ID,
		"creatorID":    w.CreatorID,
		"transferRef":  ref,
	})
	return nil
}

// List returns a creator's withdrawals, newest first.
func List(creatorID string) ([]Withdrawal, error) {
	var items []Withdrawal
	err := database.DB.
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
