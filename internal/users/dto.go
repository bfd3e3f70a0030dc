package users

import (
	"time"

	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/ardiansetya/kasirpoint-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Username    string         `json:"username"`
	FullName    string         `json:"full_name"`
	Role        enums.UserRole `json:"role"`
	IsActive    bool           `json:"is_active"`
	ImageURL    *string        `json:"image_url,omitempty"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required to persist a new account.
type CreateUserDTO struct {
	Username     string
	PasswordHash string
	FullName     string
	Role         enums.UserRole
}

// ToModel converts the DTO into a persistable user model.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		Role:         d.Role,
		IsActive:     true,
	}
}

// FromModel maps a user model into its transport shape.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		ImageURL:    u.ImageURL,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
