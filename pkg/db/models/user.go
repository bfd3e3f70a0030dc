package models

import (
	"time"

	"github.com/ardiansetya/kasirpoint-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents a cashier or admin account.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string         `gorm:"type:text;not null;uniqueIndex" json:"username"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	FullName     string         `gorm:"column:full_name;not null" json:"full_name"`
	Role         enums.UserRole `gorm:"type:text;not null;default:'cashier'" json:"role"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	ImageURL     *string        `gorm:"column:image_url" json:"image_url,omitempty"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
