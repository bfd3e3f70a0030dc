package settings

import (
	"context"

	"github.com/ardiansetya/kasirpoint-backend/internal/repo"
	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads and writes the key/value settings table.
type Repository struct {
	repo.Base
}

// NewRepository constructs a settings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Get loads one setting row by key.
func (r *Repository) Get(ctx context.Context, key string) (*models.Setting, error) {
	var row models.Setting
	if err := r.DB(ctx).First(&row, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// All returns every setting row.
func (r *Repository) All(ctx context.Context) ([]models.Setting, error) {
	var rows []models.Setting
	if err := r.DB(ctx).Order("key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert writes a setting value, inserting the key when missing.
func (r *Repository) Upsert(ctx context.Context, key, value string) error {
	row := models.Setting{Key: key, Value: value}
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}
