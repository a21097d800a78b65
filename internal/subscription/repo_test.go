package subscription

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
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

func subscriptionColumns() []string {
	return []string{"id", "created_at", "subscriber_id", "creator_id", "status", "stripe_subscription_id", "price", "started_at", "expires_at"}
}

func TestIsSubscriberAndPrice(t *testing.T) {
	tests := []struct {
		name                 string
		mockRows             *sqlmock.Rows
		expectedIsSubscriber bool
		expectedPrice        *float64
	}{
		{
			name: "Active subscription exists",
			mockRows: sqlmock.NewRows(subscriptionColumns()).
				AddRow("sub1", time.Now(), "subscriber1", "creator1", "active", "stripe_sub_123", 9.99, time.Now(), nil),
			expectedIsSubscriber: true,
			expectedPrice:        func() *float64 { p := 9.99; return &p }(),
		},
		{
			name: "Cancelled subscription is not active",
			mockRows: sqlmock.NewRows(subscriptionColumns()).
				AddRow("sub1", time.Now(), "subscriber1", "creator1", "cancelled", "stripe_sub_123", 9.99, time.Now(), nil),
			expectedIsSubscriber: false,
			expectedPrice:        func() *float64 { p := 9.99; return &p }(),
		},
		{
			name:                 "No subscription exists",
			mockRows:             sqlmock.NewRows(subscriptionColumns()),
			expectedIsSubscriber: false,
			expectedPrice:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, cleanup := setupMockDB(t)
			defer cleanup()

			mock.ExpectQuery(`SELECT`).WillReturnRows(tt.mockRows)

			isSubscriber, price, err := IsSubscriberAndPrice("subscriber1", "creator1")

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedIsSubscriber, isSubscriber)
			assert.Equal(t, tt.expectedPrice, price)
		})
	}
}

func TestActivateReactivatesExistingRow(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT`).WillReturnRows(
		sqlmock.NewRows(subscriptionColumns()).
			AddRow("sub1", time.Now(), "subscriber1", "creator1", "cancelled", "old_sub", 5.00, time.Now(), nil))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	expiresAt := time.Now().AddDate(0, 1, 0)
	sub, err := Activate("subscriber1", "creator1", "new_sub", 7.50, &expiresAt)

	assert.NoError(t, err)
	assert.Equal(t, "sub1", sub.ID)
	assert.Equal(t, StatusActive, sub.Status)
	assert.Equal(t, "new_sub", sub.StripeSubscriptionID)
	assert.Equal(t, 7.50, sub.Price)
}

func TestActivateKeepsActiveRowUntouched(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT`).WillReturnRows(
		sqlmock.NewRows(subscriptionColumns()).
			AddRow("sub1", time.Now(), "subscriber1", "creator1", "active", "stripe_sub_123", 5.00, time.Now(), nil))

	sub, err := Activate("subscriber1", "creator1", "other_sub", 9.00, nil)

	assert.NoError(t, err)
	assert.Equal(t, "stripe_sub_123", sub.StripeSubscriptionID)
	assert.Equal(t, 5.00, sub.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivateCreatesNewRow(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(subscriptionColumns()))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sub, err := Activate("subscriber1", "creator1", "stripe_sub_9", 12.00, nil)

	assert.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
	assert.Equal(t, "subscriber1", sub.SubscriberID)
	assert.Equal(t, "creator1", sub.CreatorID)
}
