package models

import (
	"time"

	"github.com/google/uuid"
)

// CartSnapshot is the durable copy of one user's cart lines, stored as JSON.
type CartSnapshot struct {
	UserID    uuid.UUID `gorm:"type:uuid;column:user_id;primaryKey" json:"user_id"`
	Lines     []byte    `gorm:"type:jsonb;not null" json:"lines"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
