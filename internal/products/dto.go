package products

import (
	"strings"

	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ListFilter narrows the catalog listing.
type ListFilter struct {
	Search     string
	CategoryID *uuid.UUID
	// IncludeInactive widens the listing to soft-deleted products. Only the
	// admin surfaces set it.
	IncludeInactive bool
	Page            int
	Limit           int
}

// CreateProductRequest is the admin payload for a new catalog item.
type CreateProductRequest struct {
	Name       string     `json:"name" validate:"required"`
	SKU        string     `json:"sku" validate:"required"`
	Price      int64      `json:"price" validate:"gte=0"`
	Stock      int        `json:"stock" validate:"gte=0"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	ImageURL   *string    `json:"image_url,omitempty"`
}

// UpdateProductRequest applies partial changes; nil fields keep their value.
type UpdateProductRequest struct {
	Name       *string    `json:"name,omitempty"`
	SKU        *string    `json:"sku,omitempty"`
	Price      *int64     `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock      *int       `json:"stock,omitempty" validate:"omitempty,gte=0"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	ImageURL   *string    `json:"image_url,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
}

// CreateCategoryRequest names a new catalog category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r CreateProductRequest) toModel() *models.Product {
	return &models.Product{
		Name:       strings.TrimSpace(r.Name),
		SKU:        strings.TrimSpace(r.SKU),
		Price:      r.Price,
		Stock:      r.Stock,
		IsActive:   true,
		CategoryID: r.CategoryID,
		ImageURL:   r.ImageURL,
	}
}
