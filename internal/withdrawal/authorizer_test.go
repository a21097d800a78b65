package withdrawal

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
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/earnings"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/ledger"
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

type stubProvider struct {
	ref string
	err error
}

func (s *stubProvider) Transfer(_ context.Context, _ payout.Request) (string, error) {
	return s.ref, s.err
}

func testAuthorizer(instant payout.Provider) *Authorizer {
	svc := &earnings.Service{
		Fees:       earnings.NewFeeModel(0.15),
		Settlement: earnings.NewClassifier(15 * 24 * time.Hour),
	}
	return NewAuthorizer(svc, instant)
}

func userColumns() []string {
	return []string{"id", "created_at", "username", "email", "password_hash", "bio", "avatar_url",
		"is_admin", "is_creator", "suspended",
		"subscription_price", "stripe_account_id", "bank_account", "bank_verified", "allow_tips", "minimum_tip_amount"}
}

func creatorRow(bankVerified bool) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns()).
		AddRow("creator1", time.Now(), "alice", "alice@example.com", "hash", "", "",
			false, true, false,
			100.00, "acct_1", "pix:alice", bankVerified, true, 1.00)
}

func transactionColumns() []string {
	return []string{"id", "created_at", "creator_id", "payer_id", "kind", "amount", "status", "stripe_payment_id", "post_id", "completed_at", "failure_reason"}
}

func agedTransactionRows() *sqlmock.Rows {
	// 200.00 completed 20 days ago: 170.00 net and past the hold period.
	old := time.Now().Add(-20 * 24 * time.Hour)
	return sqlmock.NewRows(transactionColumns()).
		AddRow("t1", old, "creator1", "fan1", "content", 200.00, "completed", "pi_1", "", old, "")
}

func noWithdrawalsRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0)
}

func TestCreateRejectsInvalidAmount(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	authorizer := testAuthorizer(&stubProvider{})

	for _, amount := range []float64{0, -10} {
		_, err := authorizer.Create(context.Background(), "creator1", amount, MethodBankTransfer)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestCreateRejectsUnknownCreator(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(userColumns()))
	mock.ExpectRollback()

	_, err := testAuthorizer(&stubProvider{}).Create(context.Background(), "ghost", 10.00, MethodBankTransfer)

	assert.ErrorIs(t, err, ledger.ErrCreatorNotFound)
}

func TestCreateRejectsUnverifiedBank(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// Balance is never consulted: the bank check comes first.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT`).WillReturnRows(creatorRow(false))
	mock.ExpectRollback()

	_, err := testAuthorizer(&stubProvider{}).Create(context.Background(), "creator1", 10.00, MethodBankTransfer)

	assert.ErrorIs(t, err, ErrBankNotVerified)
}

func TestCreateRejectsInsufficientBalance(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT`).WillReturnRows(creatorRow(true))
	mock.ExpectQuery(`SELECT`).WillReturnRows(agedTransactionRows())
	mock.ExpectQuery(`SELECT`).WillReturnRows(noWithdrawalsRow())
	mock.ExpectRollback()

	_, err := testAuthorizer(&stubProvider{}).Create(context.Background(), "creator1", 170.01, MethodBankTransfer)

	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestCreateBankTransferAtExactBalance(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT`).WillReturnRows(creatorRow(true))
	mock.ExpectQuery(`SELECT`).WillReturnRows(agedTransactionRows())
	mock.ExpectQuery(`SELECT`).WillReturnRows(noWithdrawalsRow())
	mock.ExpectExec(`INSERT`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := testAuthorizer(&stubProvider{}).Create(context.Background(), "creator1", 170.00, MethodBankTransfer)

	assert.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, MethodBankTransfer, created.Method)
	assert.Equal(t, 170.00, created.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDeductsPriorWithdrawals(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 170.00 available minus 100.00 already withdrawn leaves 70.00.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT`).WillReturnRows(creatorRow(true))
	mock.ExpectQuery(`SELECT`).WillReturnRows(agedTransactionRows())
	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(100.0))
	mock.ExpectRollback()

	_, err := testAuthorizer(&stubProvider{}).Create(context.Background(), "creator1", 70.01, MethodBankTransfer)

	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestCreateInstantTransferSettles(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT`).WillReturnRows(creatorRow(true))
	mock.ExpectQuery(`SELECT`).WillReturnRows(agedTransactionRows())
	mock.ExpectQuery(`SELECT`).WillReturnRows(noWithdrawalsRow())
	mock.ExpectExec(`INSERT`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := testAuthorizer(&stubProvider{ref: "tr_123"}).
		Create(context.Background(), "creator1", 50.00, MethodInstantTransfer)

	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, created.Status)
	assert.Equal(t, "tr_123", created.TransferRef)
	assert.NotNil(t, created.CompletedAt)
}

func TestCreateInstantTransferProviderDown(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT`).WillReturnRows(creatorRow(true))
	mock.ExpectQuery(`SELECT`).WillReturnRows(agedTransactionRows())
	mock.ExpectQuery(`SELECT`).WillReturnRows(noWithdrawalsRow())
	mock.ExpectExec(`INSERT`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := testAuthorizer(&stubProvider{err: errors.New("connection refused")}).
		Create(context.Background(), "creator1", 50.00, MethodInstantTransfer)

	// The record survives the failed payout attempt.
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.NotNil(t, created)
	assert.Equal(t, StatusFailed, created.Status)
	assert.NotEmpty(t, created.FailureReason)
}

func TestBalance(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT`).WillReturnRows(agedTransactionRows())
	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(20.0))

	balance, err := testAuthorizer(&stubProvider{}).Balance("creator1", time.Now())

	assert.NoError(t, err)
	assert.Equal(t, 150.00, balance)
}
