package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/payout"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/subscription"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/user"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/withdrawal"
)

// Start schedules the background maintenance jobs: downgrading lapsed
// subscriptions and pushing bank-transfer withdrawals through the
// provider. The returned cron can be stopped on shutdown.
func Start(bank payout.Provider) *cron.Cron {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		ExpireSubscriptions()
	})
	c.AddFunc("@every 15m", func() {
		ReconcileWithdrawals(context.Background(), bank)
	})

	c.Start()
	return c
}

// ExpireSubscriptions flips active subscriptions whose period lapsed.
func ExpireSubscriptions() {
	count, err := subscription.ExpireLapsed(time.Now())
	if err != nil {
		logs.LogJSON("ERROR", "Subscription expiry job failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if count > 0 {
		logs.LogJSON("INFO", "Subscriptions expired", map[string]interface{}{
			"count": count,
		})
	}
}

// ReconcileWithdrawals advances bank-transfer withdrawals: pending rows
// get dispatched to the provider, processing rows get their settlement
// status polled. Provider errors leave the row where it is for the next
// tick.
func ReconcileWithdrawals(ctx context.Context, bank payout.Provider) {
	dispatchPending(ctx, bank)

	if reporter, ok := bank.(payout.StatusReporter); ok {
		pollProcessing(ctx, reporter)
	}
}

func dispatchPending(ctx context.Context, bank payout.Provider) {
	var pending []withdrawal.Withdrawal
	if err := database.DB.
		Where("status = ? AND method = ?", withdrawal.StatusPending, withdrawal.MethodBankTransfer).
		Find(&pending).Error; err != nil {
		logs.LogJSON("ERROR", "Withdrawal dispatch query failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for _, w := range pending {
		var creator user.User
		if err := database.DB.First(&creator, "id = ?", w.CreatorID).Error; err != nil {
			continue
		}

		ref, err := bank.Transfer(ctx, payout.Request{
			WithdrawalID:    w.ID,
			CreatorID:       w.CreatorID,
			Destination:     creator.BankAccount,
			StripeAccountID: creator.StripeAccountID,
			Amount:          w.Amount,
		})
		if err != nil {
			logs.LogJSON("WARN", "Bank transfer dispatch failed, will retry", map[string]interface{}{
				"error":        err.Error(),
				"withdrawalID": w.ID,
			})
			continue
		}

		if err := database.DB.Model(&w).Updates(map[string]interface{}{
			"status":       withdrawal.StatusProcessing,
			"transfer_ref": ref,
		}).Error; err != nil {
			logs.LogJSON("ERROR", "Withdrawal status update failed", map[string]interface{}{
				"error":        err.Error(),
				"withdrawalID": w.ID,
			})
		}
	}
}

func pollProcessing(ctx context.Context, reporter payout.StatusReporter) {
	var processing []withdrawal.Withdrawal
	if err := database.DB.
		Where("status = ? AND method = ? AND transfer_ref <> ''", withdrawal.StatusProcessing, withdrawal.MethodBankTransfer).
		Find(&processing).Error; err != nil {
		logs.LogJSON("ERROR", "Withdrawal reconciliation query failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for _, w := range processing {
		status, err := reporter.TransferStatus(ctx, w.TransferRef)
		if err != nil {
			continue
		}

		switch status {
		case payout.TransferSettled:
			completedAt := time.Now()
			database.DB.Model(&w).Updates(map[string]interface{}{
				"status":       withdrawal.StatusCompleted,
				"completed_at": completedAt,
			})
			logs.LogJSON("INFO", "Bank transfer settled", map[string]interface{}{
				"withdrawalID": w.ID,
			})
		case payout.TransferFailed:
			// A dispatched transfer never moves back to failed; flag it
			// for operator review instead.
			logs.LogJSON("ERROR", "Bank transfer reported failed by provider, needs review", map[string]interface{}{
				"withdrawalID": w.ID,
				"transferRef":  w.TransferRef,
			})
		}
	}
}
