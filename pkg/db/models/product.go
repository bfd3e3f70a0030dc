package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products for catalog browsing.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Product is a sellable catalog item. Prices are whole rupiah.
type Product struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string     `gorm:"type:text;not null" json:"name"`
	SKU        string     `gorm:"type:text;not null;uniqueIndex" json:"sku"`
	Price      int64      `gorm:"not null;check:price >= 0" json:"price"`
	Stock      int        `gorm:"not null;default:0" json:"stock"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	ImageURL   *string    `gorm:"column:image_url" json:"image_url,omitempty"`
	CategoryID *uuid.UUID `gorm:"type:uuid;column:category_id" json:"category_id,omitempty"`
	Category   *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
