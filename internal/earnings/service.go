package earnings

import (
	"time"

	"gorm.io/gorm"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/config"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/ledger"
)

// Service computes creator earnings from the ledger. It only reads
// financial history, never mutates it.
type Service struct {
	Fees       FeeModel
	Settlement Classifier
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		Fees:       NewFeeModel(cfg.PlatformFeeRate),
		Settlement: NewClassifier(cfg.SettlementHold),
	}
}

// HistoricalReport aggregates completed transactions over a window.
// Total = Available + Pending. ByKind breaks the total down per revenue
// kind. All figures are net of the platform fee.
type HistoricalReport struct {
	Total     float64            `json:"total"`
	Available float64            `json:"available"`
	Pending   float64            `json:"pending"`
	ByKind    map[string]float64 `json:"by_kind"`
}

// RecurringEarnings is the forward-looking run-rate: the fee-adjusted
// sum of currently active subscription prices. It is NOT the same number
// as historical earnings and the two are never merged.
func (s *Service) RecurringEarnings(creatorID string) (float64, error) {
	db := database.DB

	if err := ledger.CheckCreator(db, creatorID); err != nil {
		return 0, err
	}

	subs, err := ledger.ActiveSubscriptions(db, creatorID)
	if err != nil {
		return 0, err
	}

	var gross float64
	for _, sub := range subs {
		gross += sub.Price
	}
	return s.Fees.NetAmount(gross), nil
}

// HistoricalEarnings sums completed transactions within the window,
// fee-adjusted, bucketed into held and available per the settlement
// classifier. Pure function of stored data and now.
func (s *Service) HistoricalEarnings(creatorID string, window ledger.Window, now time.Time) (*HistoricalReport, error) {
	db := database.DB

	if err := ledger.CheckCreator(db, creatorID); err != nil {
		return nil, err
	}

	txns, err := ledger.CompletedTransactions(db, creatorID, window)
	if err != nil {
		return nil, err
	}

	report := &HistoricalReport{
		ByKind: map[string]float64{
			ledger.KindSubscription: 0,
			ledger.KindContent:      0,
			ledger.KindTip:          0,
		},
	}
	for _, txn := range txns {
		net := s.Fees.NetAmount(txn.Amount)
		report.Total = roundCents(report.Total + net)
		report.ByKind[txn.Kind] = roundCents(report.ByKind[txn.Kind] + net)

		completedAt := txn.CreatedAt
		if txn.CompletedAt != nil {
			completedAt = *txn.CompletedAt
		}
		if s.Settlement.Classify(completedAt, now) == SettlementAvailable {
			report.Available = roundCents(report.Available + net)
		} else {
			report.Pending = roundCents(report.Pending + net)
		}
	}
	return report, nil
}

// AvailableFunds is the fee-adjusted sum of completed transactions whose
// hold period has elapsed. Prior withdrawals are NOT deducted here; the
// withdrawal authorizer owns that subtraction. Takes the db handle so it
// can run inside the authorizer's locked transaction.
func (s *Service) AvailableFunds(db *gorm.DB, creatorID string, now time.Time) (float64, error) {
	txns, err := ledger.CompletedTransactions(db, creatorID, ledger.Window{})
	if err != nil {
		return 0, err
	}

	var available float64
	for _, txn := range txns {
		completedAt := txn.CreatedAt
		if txn.CompletedAt != nil {
			completedAt = *txn.CompletedAt
		}
		if s.Settlement.Classify(completedAt, now) == SettlementAvailable {
			available = roundCents(available + s.Fees.NetAmount(txn.Amount))
		}
	}
	return available, nil
}
