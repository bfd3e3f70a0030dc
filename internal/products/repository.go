package products

import (
	"context"
	"strings"

	"github.com/ardiansetya/kasirpoint-backend/internal/repo"
	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/ardiansetya/kasirpoint-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists catalog products and categories.
type Repository struct {
	repo.Base
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns one page of products plus the exact match count. Name and SKU
// are searched with a case-insensitive substring.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]models.Product, int64, error) {
	limit := pagination.NormalizeLimit(f.Limit)

	query := func() *gorm.DB {
		q := r.DB(ctx).Model(&models.Product{})
		if !f.IncludeInactive {
			q = q.Where("is_active = ?", true)
		}
		if search := strings.TrimSpace(f.Search); search != "" {
			needle := "%" + strings.ToLower(search) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", needle, needle)
		}
		if f.CategoryID != nil {
			q = q.Where("category_id = ?", *f.CategoryID)
		}
		return q
	}

	var count int64
	if err := query().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query().
		Preload("Category").
		Order("name ASC").
		Limit(limit).
		Offset(pagination.Offset(f.Page, limit)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

// FindByID loads one product with its category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).Preload("Category").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveByIDs loads the active products among the given ids.
func (r *Repository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.DB(ctx).
		Where("id IN ?", ids).
		Where("is_active = ?", true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a product.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

// Save persists all fields of an already-loaded product.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Save(product).Error
}

// SoftDelete deactivates a product so history keeps referencing it.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("is_active", false).Error
}

// DecrementStock reduces stock by qty, failing when not enough remains.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	res := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected, res.Error
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.DB(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateCategory inserts a category.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.DB(ctx).Create(category).Error
}
