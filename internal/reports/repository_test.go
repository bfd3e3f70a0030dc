package reports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/ardiansetya/kasirpoint-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:reports_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	transactions := `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  transaction_code TEXT NOT NULL,
  user_id TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  total_amount INTEGER NOT NULL,
  tax INTEGER NOT NULL DEFAULT 0,
  final_amount INTEGER NOT NULL,
  cash_received INTEGER,
  cash_change INTEGER,
  latitude REAL,
  longitude REAL,
  transaction_time DATETIME NOT NULL,
  created_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS transaction_items (
  id TEXT PRIMARY KEY,
  transaction_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  price INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  total_price INTEGER NOT NULL
);`
	require.NoError(t, db.Exec(transactions).Error)
	require.NoError(t, db.Exec(items).Error)
	return db
}

func createReportTransaction(t *testing.T, db *gorm.DB, code string, userID uuid.UUID, method enums.PaymentMethod, finalAmount int64, at time.Time, productNames ...string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		ID:              uuid.New(),
		TransactionCode: code,
		UserID:          userID,
		PaymentMethod:   method,
		TotalAmount:     finalAmount,
		FinalAmount:     finalAmount,
		TransactionTime: at,
		CreatedAt:       at,
	}
	require.NoError(t, db.Create(tx).Error)

	for _, name := range productNames {
		item := &models.TransactionItem{
			ID:            uuid.New(),
			TransactionID: tx.ID,
			ProductID:     uuid.New(),
			ProductName:   name,
			Price:         1000,
			Quantity:      1,
			TotalPrice:    1000,
		}
		require.NoError(t, db.Create(item).Error)
	}
	return tx
}

func TestRepositoryFetchPage_filtersAndOrder(t *testing.T) {
	db := setupReportsTestDB(t)
	repository := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	otherID := uuid.New()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	createReportTransaction(t, db, "TXN-AAA111", userID, enums.PaymentMethodCash, 15000, base, "Kopi Susu")
	createReportTransaction(t, db, "TXN-BBB222", userID, enums.PaymentMethodQRIS, 20000, base.Add(time.Hour), "Roti Bakar")
	createReportTransaction(t, db, "TXN-CCC333", otherID, enums.PaymentMethodCash, 5000, base.Add(2*time.Hour), "Es Teh")

	rows, count, err := repository.FetchPage(ctx, Filter{UserID: &userID}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, rows, 2)
	// Newest first.
	assert.Equal(t, "TXN-BBB222", rows[0].TransactionCode)
	assert.Equal(t, "TXN-AAA111", rows[1].TransactionCode)
	// Nested items come back with the page.
	require.Len(t, rows[1].Items, 1)
	assert.Equal(t, "Kopi Susu", rows[1].Items[0].ProductName)

	// Code match is a case-insensitive substring.
	rows, count, err = repository.FetchPage(ctx, Filter{TransactionCode: "bbb"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, rows, 1)
	assert.Equal(t, "TXN-BBB222", rows[0].TransactionCode)

	rows, count, err = repository.FetchPage(ctx, Filter{PaymentMethod: "cash"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Len(t, rows, 2)
}

func TestRepositoryFetchPage_dateRangeInclusive(t *testing.T) {
	db := setupReportsTestDB(t)
	repository := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	createReportTransaction(t, db, "TXN-EDGE01", userID, enums.PaymentMethodCash, 1000, from, "A")
	createReportTransaction(t, db, "TXN-EDGE02", userID, enums.PaymentMethodCash, 1000, to, "B")
	createReportTransaction(t, db, "TXN-OUT", userID, enums.PaymentMethodCash, 1000, to.Add(time.Minute), "C")

	_, count, err := repository.FetchPage(ctx, Filter{From: &from, To: &to}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepositoryFetchPage_pagination(t *testing.T) {
	db := setupReportsTestDB(t)
	repository := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		code := fmt.Sprintf("TXN-PAGE%02d", i)
		createReportTransaction(t, db, code, userID, enums.PaymentMethodCash, 1000, base.Add(time.Duration(i)*time.Minute), "Kopi")
	}

	rows, count, err := repository.FetchPage(ctx, Filter{UserID: &userID}, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	require.Len(t, rows, 3)
	assert.Equal(t, "TXN-PAGE06", rows[0].TransactionCode)

	rows, _, err = repository.FetchPage(ctx, Filter{UserID: &userID}, 3, 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TXN-PAGE00", rows[0].TransactionCode)
}

func TestRepositoryTotalAmount(t *testing.T) {
	db := setupReportsTestDB(t)
	repository := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	createReportTransaction(t, db, "TXN-SUM01", userID, enums.PaymentMethodCash, 15000, base, "Kopi Susu")
	createReportTransaction(t, db, "TXN-SUM02", userID, enums.PaymentMethodQRIS, 20000, base.Add(time.Hour), "Es Kopi", "Donat")
	createReportTransaction(t, db, "TXN-SUM03", userID, enums.PaymentMethodCash, 7000, base.Add(2*time.Hour), "Es Teh")

	total, err := repository.TotalAmount(ctx, Filter{UserID: &userID})
	require.NoError(t, err)
	assert.Equal(t, int64(42000), total)

	total, err = repository.TotalAmount(ctx, Filter{PaymentMethod: "qris"})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), total)

	// Product name sums only the transactions whose items match.
	total, err = repository.TotalAmount(ctx, Filter{UserID: &userID, ProductName: "kopi"})
	require.NoError(t, err)
	assert.Equal(t, int64(35000), total)

	// No matches sums to zero, not an error.
	total, err = repository.TotalAmount(ctx, Filter{TransactionCode: "NOPE"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
