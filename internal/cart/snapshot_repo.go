package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ardiansetya/kasirpoint-backend/internal/repo"
	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository stores cart lines as JSON rows, one per user.
type SnapshotRepository struct {
	repo.Base
}

// NewSnapshotRepository builds a repository tied to the provided GORM DB.
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{Base: repo.NewBase(db)}
}

// Load reads every user's stored lines into a cart table.
func (r *SnapshotRepository) Load(ctx context.Context) (map[uuid.UUID][]Line, error) {
	var rows []models.CartSnapshot
	if err := r.DB(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	table := make(map[uuid.UUID][]Line, len(rows))
	for _, row := range rows {
		var lines []Line
		if err := json.Unmarshal(row.Lines, &lines); err != nil {
			return nil, fmt.Errorf("decoding cart snapshot for user %s: %w", row.UserID, err)
		}
		table[row.UserID] = lines
	}
	return table, nil
}

// Save upserts the user's lines.
func (r *SnapshotRepository) Save(ctx context.Context, userID uuid.UUID, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encoding cart snapshot: %w", err)
	}

	row := models.CartSnapshot{UserID: userID, Lines: payload}
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"lines", "updated_at"}),
		}).
		Create(&row).Error
}
