package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/payout"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	originalDB := database.DB
	database.DB = db
	return mock, func() {
		database.DB = originalDB
		mockDB.Close()
	}
}

type stubBank struct {
	transferRef string
	transferErr error
	status      string
	statusErr   error

	transferCalls int
	statusCalls   int
}

func (s *stubBank) Transfer(_ context.Context, _ payout.Request) (string, error) {
	s.transferCalls++
	return s.transferRef, s.transferErr
}

func (s *stubBank) TransferStatus(_ context.Context, _ string) (string, error) {
	s.statusCalls++
	return s.status, s.statusErr
}

func withdrawalColumns() []string {
	return []string{"id", "created_at", "creator_id", "amount", "status", "method", "transfer_ref", "failure_reason", "completed_at"}
}

func userColumns() []string {
	return []string{"id", "created_at", "username", "email", "password_hash", "bio", "avatar_url",
		"is_admin", "is_creator", "suspended",
		"subscription_price", "stripe_account_id", "bank_account", "bank_verified", "allow_tips", "minimum_tip_amount"}
}

func TestReconcileDispatchesPendingBankTransfers(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// dispatch: one pending withdrawal, its creator, then the status update
	mock.ExpectQuery(`SELECT`).WillReturnRows(
		sqlmock.NewRows(withdrawalColumns()).
			AddRow("w1", time.Now(), "creator1", 50.00, "pending", "bank-transfer", "", "", nil))
	mock.ExpectQuery(`SELECT`).WillReturnRows(
		sqlmock.NewRows(userColumns()).
			AddRow("creator1", time.Now(), "alice", "alice@example.com", "hash", "", "",
				false, true, false, 100.00, "acct_1", "pix:alice", true, false, 0))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// poll: no processing rows
	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(withdrawalColumns()))

	bank := &stubBank{transferRef: "tr_bank_1"}
	ReconcileWithdrawals(context.Background(), bank)

	assert.Equal(t, 1, bank.transferCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileLeavesPendingOnProviderError(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT`).WillReturnRows(
		sqlmock.NewRows(withdrawalColumns()).
			AddRow("w1", time.Now(), "creator1", 50.00, "pending", "bank-transfer", "", "", nil))
	mock.ExpectQuery(`SELECT`).WillReturnRows(
		sqlmock.NewRows(userColumns()).
			AddRow("creator1", time.Now(), "alice", "alice@example.com", "hash", "", "",
				false, true, false, 100.00, "acct_1", "pix:alice", true, false, 0))
	// no UPDATE: the row stays pending for the next tick
	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(withdrawalColumns()))

	bank := &stubBank{transferErr: errors.New("gateway timeout")}
	ReconcileWithdrawals(context.Background(), bank)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileCompletesSettledTransfers(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// dispatch: nothing pending
	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(withdrawalColumns()))

	// poll: one processing row settles
	mock.ExpectQuery(`SELECT`).WillReturnRows(
		sqlmock.NewRows(withdrawalColumns()).
			AddRow("w1", time.Now(), "creator1", 50.00, "processing", "bank-transfer", "tr_bank_1", "", nil))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	bank := &stubBank{status: payout.TransferSettled}
	ReconcileWithdrawals(context.Background(), bank)

	assert.Equal(t, 1, bank.statusCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
