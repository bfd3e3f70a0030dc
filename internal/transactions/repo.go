package transactions

import (
	"context"

	"github.com/ardiansetya/kasirpoint-backend/internal/repo"
	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/ardiansetya/kasirpoint-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists completed transactions.
type Repository struct {
	repo.Base
}

// NewRepository constructs a transactions repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Insert writes the transaction and its items in one create.
func (r *Repository) Insert(ctx context.Context, tx *models.Transaction) error {
	return r.DB(ctx).Create(tx).Error
}

// FindByID loads one transaction with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var row models.Transaction
	err := r.DB(ctx).Preload("Items").First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByUser pages one user's transactions, newest first.
func (r *Repository) ListByUser(ctx context.Context, f HistoryFilter) ([]models.Transaction, int64, error) {
	limit := pagination.NormalizeLimit(f.Limit)

	var count int64
	err := r.DB(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ?", f.UserID).
		Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	var rows []models.Transaction
	err = r.DB(ctx).
		Where("user_id = ?", f.UserID).
		Preload("Items").
		Order("transaction_time DESC").
		Limit(limit).
		Offset(pagination.Offset(f.Page, limit)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}
