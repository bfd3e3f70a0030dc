package audit

import (
	"context"

	"github.com/ardiansetya/kasirpoint-backend/internal/repo"
	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/ardiansetya/kasirpoint-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists and lists audit log rows.
type Repository struct {
	repo.Base
}

// NewRepository constructs an audit repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Insert appends one audit row.
func (r *Repository) Insert(ctx context.Context, entry *models.AuditLog) error {
	return r.DB(ctx).Create(entry).Error
}

// ListRecent returns the newest entries first.
func (r *Repository) ListRecent(ctx context.Context, page, limit int) ([]models.AuditLog, int64, error) {
	limit = pagination.NormalizeLimit(limit)

	var count int64
	if err := r.DB(ctx).Model(&models.AuditLog{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AuditLog
	err := r.DB(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(pagination.Offset(page, limit)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}
