package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ardiansetya/kasirpoint-backend/internal/audit"
	"github.com/ardiansetya/kasirpoint-backend/internal/settings"
	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/ardiansetya/kasirpoint-backend/pkg/enums"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type transactionWriter interface {
	Insert(ctx context.Context, row *models.Transaction) error
}

type stockRepository interface {
	FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error)
}

type historyRepository interface {
	ListByUser(ctx context.Context, f HistoryFilter) ([]models.Transaction, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

// TxRepos bundles the repositories rebound to one database transaction.
type TxRepos struct {
	Transactions transactionWriter
	Stock        stockRepository
}

// ReposFactory builds the per-transaction repositories for a checkout.
type ReposFactory func(tx *gorm.DB) TxRepos

// Service executes checkouts and serves transaction history.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*models.Transaction, error)
	History(ctx context.Context, f HistoryFilter) ([]models.Transaction, int64, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
}

type service struct {
	tx       txRunner
	repos    ReposFactory
	history  historyRepository
	settings settings.Service
	audit    audit.Service
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Tx       txRunner
	Repos    ReposFactory
	History  historyRepository
	Settings settings.Service
	Audit    audit.Service
}

// NewService builds the transactions service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repos == nil {
		return nil, fmt.Errorf("repos factory required")
	}
	if params.History == nil {
		return nil, fmt.Errorf("history repository required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("settings service required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit service required")
	}
	return &service{
		tx:       params.Tx,
		repos:    params.Repos,
		history:  params.History,
		settings: params.Settings,
		audit:    params.Audit,
		now:      time.Now,
	}, nil
}

// Checkout settles the cart in one database transaction: stock is
// decremented per line, then the transaction row and its item snapshots are
// written together. Any failure rolls the whole checkout back.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*models.Transaction, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	method, ok := enums.ParsePaymentMethod(input.Request.PaymentMethod)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	var subtotal int64
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		subtotal += line.UnitPrice * int64(line.Quantity)
	}

	rate, err := s.settings.TaxRate(ctx)
	if err != nil {
		return nil, err
	}
	tax := computeTax(subtotal, rate)
	final := subtotal + tax

	var cashReceived, cashChange *int64
	if method == enums.PaymentMethodCash {
		if input.Request.CashReceived == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash received is required for cash payment")
		}
		received := *input.Request.CashReceived
		if received < final {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash received is less than the amount due")
		}
		change := received - final
		cashReceived = &received
		cashChange = &change
	}

	now := s.now().UTC()
	row := &models.Transaction{
		ID:              uuid.New(),
		TransactionCode: newTransactionCode(),
		UserID:          input.UserID,
		PaymentMethod:   method,
		TotalAmount:     subtotal,
		Tax:             tax,
		FinalAmount:     final,
		CashReceived:    cashReceived,
		CashChange:      cashChange,
		Latitude:        input.Request.Latitude,
		Longitude:       input.Request.Longitude,
		TransactionTime: now,
	}
	for _, line := range input.Lines {
		row.Items = append(row.Items, models.TransactionItem{
			TransactionID: row.ID,
			ProductID:     line.ProductID,
			ProductName:   line.Name,
			Price:         line.UnitPrice,
			Quantity:      line.Quantity,
			TotalPrice:    line.UnitPrice * int64(line.Quantity),
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repos := s.repos(tx)

		ids := make([]uuid.UUID, 0, len(input.Lines))
		for _, line := range input.Lines {
			ids = append(ids, line.ProductID)
		}
		available, err := repos.Stock.FindActiveByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
		}
		byID := make(map[uuid.UUID]models.Product, len(available))
		for _, p := range available {
			byID[p.ID] = p
		}

		for _, line := range input.Lines {
			if _, ok := byID[line.ProductID]; !ok {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("product %q is no longer available", line.Name))
			}
			affected, err := repos.Stock.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("insufficient stock for %q", line.Name))
			}
		}

		if err := repos.Transactions.Insert(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert transaction")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:   &input.UserID,
		Action:   "checkout",
		Entity:   "transaction",
		EntityID: &row.ID,
		Detail:   row.TransactionCode,
	})
	return row, nil
}

func (s *service) History(ctx context.Context, f HistoryFilter) ([]models.Transaction, int64, error) {
	if f.UserID == uuid.Nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user")
	}
	rows, count, err := s.history.ListByUser(ctx, f)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transactions")
	}
	return rows, count, nil
}

// Get loads one transaction and enforces ownership: cashiers only see their
// own receipts.
func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	row, err := s.history.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transaction")
	}
	if row.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your transaction")
	}
	return row, nil
}

// computeTax applies a percentage rate to a rupiah subtotal, rounding half
// up to the nearest rupiah.
func computeTax(subtotal int64, rate decimal.Decimal) int64 {
	if rate.IsZero() || subtotal == 0 {
		return 0
	}
	return decimal.NewFromInt(subtotal).
		Mul(rate).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

func newTransactionCode() string {
	return "TXN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
