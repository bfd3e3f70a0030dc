package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records a notable action taken by a user.
type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;column:user_id;index" json:"user_id,omitempty"`
	Action    string     `gorm:"type:text;not null" json:"action"`
	Entity    string     `gorm:"type:text;not null" json:"entity"`
	EntityID  *string    `gorm:"column:entity_id" json:"entity_id,omitempty"`
	Detail    *string    `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}
