package reports

import (
	"context"
	"strings"

	"github.com/ardiansetya/kasirpoint-backend/internal/repo"
	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/ardiansetya/kasirpoint-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository is the backend query surface the engine composes filters onto.
type Repository interface {
	// FetchPage returns one page of matching transactions ordered by time
	// descending, plus the exact count of all matching rows. The count and the
	// page are two independent queries against the same predicate.
	FetchPage(ctx context.Context, f Filter, page, limit int) ([]models.Transaction, int64, error)
	// TotalAmount sums final_amount over every matching transaction with no
	// pagination window applied.
	TotalAmount(ctx context.Context, f Filter) (int64, error)
}

// GormRepository implements Repository over the transactions table.
type GormRepository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{Base: repo.NewBase(db)}
}

// applyPredicates composes the filter onto a transactions query. The product
// name predicate is deliberately absent: it targets the nested purchased
// items and is applied post-fetch by the engine.
func applyPredicates(q *gorm.DB, f Filter) *gorm.DB {
	if code := strings.TrimSpace(f.TransactionCode); code != "" {
		q = q.Where("LOWER(transaction_code) LIKE ?", "%"+strings.ToLower(code)+"%")
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if method := strings.TrimSpace(f.PaymentMethod); method != "" {
		q = q.Where("LOWER(payment_method) = ?", strings.ToLower(method))
	}
	if f.From != nil {
		q = q.Where("transaction_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("transaction_time <= ?", *f.To)
	}
	return q
}

func (r *GormRepository) FetchPage(ctx context.Context, f Filter, page, limit int) ([]models.Transaction, int64, error) {
	limit = pagination.NormalizeLimit(limit)

	var count int64
	if err := applyPredicates(r.DB(ctx).Model(&models.Transaction{}), f).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Transaction
	err := applyPredicates(r.DB(ctx).Model(&models.Transaction{}), f).
		Preload("Items").
		Order("transaction_time DESC").
		Limit(limit).
		Offset(pagination.Offset(page, limit)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

func (r *GormRepository) TotalAmount(ctx context.Context, f Filter) (int64, error) {
	if strings.TrimSpace(f.ProductName) == "" {
		var total int64
		err := applyPredicates(r.DB(ctx).Model(&models.Transaction{}), f).
			Select("COALESCE(SUM(final_amount), 0)").
			Scan(&total).Error
		if err != nil {
			return 0, err
		}
		return total, nil
	}

	// The product name condition lives on the nested items, so the aggregate
	// also goes through post-fetch narrowing: load the unwindowed superset and
	// sum the rows that survive.
	var rows []models.Transaction
	err := applyPredicates(r.DB(ctx).Model(&models.Transaction{}), f).
		Preload("Items").
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	var total int64
	for _, tx := range narrowByProductName(rows, f.ProductName) {
		total += tx.FinalAmount
	}
	return total, nil
}
