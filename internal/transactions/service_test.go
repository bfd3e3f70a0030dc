package transactions

import (
	"context"
	"testing"

	"github.com/ardiansetya/kasirpoint-backend/internal/audit"
	"github.com/ardiansetya/kasirpoint-backend/internal/cart"
	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/ardiansetya/kasirpoint-backend/pkg/enums"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubTxRunner struct {
	calls int
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

type stubTxRepos struct {
	inserted *models.Transaction
	stock    map[uuid.UUID]int
	inactive map[uuid.UUID]bool
}

func (s *stubTxRepos) Insert(ctx context.Context, row *models.Transaction) error {
	s.inserted = row
	return nil
}

func (s *stubTxRepos) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if s.inactive[id] {
			continue
		}
		if qty, ok := s.stock[id]; ok {
			out = append(out, models.Product{ID: id, Stock: qty, IsActive: true})
		}
	}
	return out, nil
}

func (s *stubTxRepos) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	if s.stock[id] < qty {
		return 0, nil
	}
	s.stock[id] -= qty
	return 1, nil
}

type stubSettings struct {
	rate decimal.Decimal
}

func (s *stubSettings) All(ctx context.Context) (map[string]string, error) { return nil, nil }
func (s *stubSettings) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}
func (s *stubSettings) Update(ctx context.Context, key, value string) error { return nil }
func (s *stubSettings) TaxRate(ctx context.Context) (decimal.Decimal, error) {
	return s.rate, nil
}

type stubAudit struct {
	actions []string
}

func (s *stubAudit) Record(ctx context.Context, entry audit.Entry) {
	s.actions = append(s.actions, entry.Action)
}

func (s *stubAudit) ListRecent(ctx context.Context, page, limit int) ([]models.AuditLog, int64, error) {
	return nil, 0, nil
}

type stubHistory struct {
	rows []models.Transaction
}

func (s *stubHistory) ListByUser(ctx context.Context, f HistoryFilter) ([]models.Transaction, int64, error) {
	var out []models.Transaction
	for _, row := range s.rows {
		if row.UserID == f.UserID {
			out = append(out, row)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubHistory) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	for i := range s.rows {
		if s.rows[i].ID == id {
			return &s.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type checkoutDeps struct {
	tx       *stubTxRunner
	repos    *stubTxRepos
	settings *stubSettings
	audit    *stubAudit
	history  *stubHistory
}

func buildCheckoutService(t *testing.T, rate decimal.Decimal) (Service, *checkoutDeps) {
	t.Helper()

	deps := &checkoutDeps{
		tx:       &stubTxRunner{},
		repos:    &stubTxRepos{stock: map[uuid.UUID]int{}, inactive: map[uuid.UUID]bool{}},
		settings: &stubSettings{rate: rate},
		audit:    &stubAudit{},
		history:  &stubHistory{},
	}
	svc, err := NewService(ServiceParams{
		Tx: deps.tx,
		Repos: func(tx *gorm.DB) TxRepos {
			return TxRepos{Transactions: deps.repos, Stock: deps.repos}
		},
		History:  deps.history,
		Settings: deps.settings,
		Audit:    deps.audit,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, deps
}

func cartLine(productID uuid.UUID, name string, price int64, qty int) cart.Line {
	return cart.Line{ProductID: productID, Name: name, UnitPrice: price, Quantity: qty}
}

func TestCheckoutCash(t *testing.T) {
	svc, deps := buildCheckoutService(t, decimal.NewFromInt(11))
	userID := uuid.New()
	kopi := uuid.New()
	roti := uuid.New()
	deps.repos.stock[kopi] = 10
	deps.repos.stock[roti] = 10

	received := int64(60000)
	tx, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID: userID,
		Lines: []cart.Line{
			cartLine(kopi, "Kopi Susu", 15000, 2),
			cartLine(roti, "Roti Bakar", 10000, 2),
		},
		Request: CheckoutRequest{PaymentMethod: "cash", CashReceived: &received},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// 50000 subtotal, 11% tax = 5500, final 55500, change 4500.
	if tx.TotalAmount != 50000 || tx.Tax != 5500 || tx.FinalAmount != 55500 {
		t.Fatalf("amounts: subtotal=%d tax=%d final=%d", tx.TotalAmount, tx.Tax, tx.FinalAmount)
	}
	if tx.CashReceived == nil || *tx.CashReceived != 60000 {
		t.Fatalf("cash received not recorded")
	}
	if tx.CashChange == nil || *tx.CashChange != 4500 {
		t.Fatalf("cash change wrong: %v", tx.CashChange)
	}
	if tx.PaymentMethod != enums.PaymentMethodCash {
		t.Fatalf("payment method = %s", tx.PaymentMethod)
	}
	if len(tx.TransactionCode) != 12 || tx.TransactionCode[:4] != "TXN-" {
		t.Fatalf("transaction code %q", tx.TransactionCode)
	}
	if len(tx.Items) != 2 || tx.Items[0].TotalPrice != 30000 {
		t.Fatalf("items not snapshotted: %+v", tx.Items)
	}
	if deps.repos.stock[kopi] != 8 || deps.repos.stock[roti] != 8 {
		t.Fatalf("stock not decremented: %v", deps.repos.stock)
	}
	if deps.repos.inserted == nil {
		t.Fatalf("transaction not inserted")
	}
	if got := deps.audit.actions; len(got) != 1 || got[0] != "checkout" {
		t.Fatalf("expected checkout audit entry, got %v", got)
	}
}

func TestCheckoutQRISIgnoresCashFields(t *testing.T) {
	svc, deps := buildCheckoutService(t, decimal.Zero)
	productID := uuid.New()
	deps.repos.stock[productID] = 5

	tx, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:  uuid.New(),
		Lines:   []cart.Line{cartLine(productID, "Kopi", 15000, 1)},
		Request: CheckoutRequest{PaymentMethod: "qris"},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if tx.Tax != 0 || tx.FinalAmount != 15000 {
		t.Fatalf("zero-rate tax wrong: tax=%d final=%d", tx.Tax, tx.FinalAmount)
	}
	if tx.CashReceived != nil || tx.CashChange != nil {
		t.Fatalf("qris must not carry cash fields")
	}
}

func TestCheckoutCashShortfall(t *testing.T) {
	svc, deps := buildCheckoutService(t, decimal.Zero)
	productID := uuid.New()
	deps.repos.stock[productID] = 5

	received := int64(10000)
	_, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:  uuid.New(),
		Lines:   []cart.Line{cartLine(productID, "Kopi", 15000, 1)},
		Request: CheckoutRequest{PaymentMethod: "cash", CashReceived: &received},
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if deps.tx.calls != 0 {
		t.Fatalf("shortfall must fail before the database transaction")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _ := buildCheckoutService(t, decimal.Zero)

	_, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:  uuid.New(),
		Request: CheckoutRequest{PaymentMethod: "cash"},
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	svc, deps := buildCheckoutService(t, decimal.Zero)
	productID := uuid.New()
	deps.repos.stock[productID] = 1

	received := int64(100000)
	_, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:  uuid.New(),
		Lines:   []cart.Line{cartLine(productID, "Kopi", 15000, 3)},
		Request: CheckoutRequest{PaymentMethod: "cash", CashReceived: &received},
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if deps.repos.inserted != nil {
		t.Fatalf("transaction must not be written when stock runs out")
	}
}

func TestCheckoutUnavailableProduct(t *testing.T) {
	svc, _ := buildCheckoutService(t, decimal.Zero)

	received := int64(100000)
	_, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:  uuid.New(),
		Lines:   []cart.Line{cartLine(uuid.New(), "Hilang", 15000, 1)},
		Request: CheckoutRequest{PaymentMethod: "cash", CashReceived: &received},
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutTaxRoundsHalfUp(t *testing.T) {
	// 10.5% of 333 = 34.965 which rounds to 35.
	svc, deps := buildCheckoutService(t, decimal.RequireFromString("10.5"))
	productID := uuid.New()
	deps.repos.stock[productID] = 5

	tx, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:  uuid.New(),
		Lines:   []cart.Line{cartLine(productID, "Permen", 333, 1)},
		Request: CheckoutRequest{PaymentMethod: "qris"},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if tx.Tax != 35 {
		t.Fatalf("tax = %d, want 35", tx.Tax)
	}
}

func TestHistoryScopedToUser(t *testing.T) {
	svc, deps := buildCheckoutService(t, decimal.Zero)
	mine := uuid.New()
	other := uuid.New()
	deps.history.rows = []models.Transaction{
		{ID: uuid.New(), UserID: mine},
		{ID: uuid.New(), UserID: other},
		{ID: uuid.New(), UserID: mine},
	}

	rows, count, err := svc.History(context.Background(), HistoryFilter{UserID: mine})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if count != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, deps := buildCheckoutService(t, decimal.Zero)
	owner := uuid.New()
	row := models.Transaction{ID: uuid.New(), UserID: owner}
	deps.history.rows = []models.Transaction{row}

	if _, err := svc.Get(context.Background(), owner, row.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.New(), row.ID); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), owner, uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
