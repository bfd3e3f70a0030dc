package products

import (
	"context"
	"errors"
	"testing"

	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubProductsRepo struct {
	products   map[uuid.UUID]*models.Product
	categories []models.Category
	createErr  error
	saveErr    error
}

func newStubProductsRepo() *stubProductsRepo {
	return &stubProductsRepo{products: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductsRepo) List(ctx context.Context, f ListFilter) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range s.products {
		if !f.IncludeInactive && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) error {
	if s.createErr != nil {
		return s.createErr
	}
	product.ID = uuid.New()
	s.products[product.ID] = product
	return nil
}

func (s *stubProductsRepo) Save(ctx context.Context, product *models.Product) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.products[product.ID] = product
	return nil
}

func (s *stubProductsRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if p, ok := s.products[id]; ok {
		p.IsActive = false
	}
	return nil
}

func (s *stubProductsRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories, nil
}

func (s *stubProductsRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	category.ID = uuid.New()
	s.categories = append(s.categories, *category)
	return nil
}

func newTestCatalog(t *testing.T) (Service, *stubProductsRepo) {
	t.Helper()
	repo := newStubProductsRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestCatalog(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductRequest{Name: " ", SKU: "SKU-1", Price: 1000})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}

	product, err := svc.Create(ctx, CreateProductRequest{Name: "Kopi Susu", SKU: "SKU-1", Price: 15000, Stock: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !product.IsActive {
		t.Fatalf("new products must start active")
	}
}

func TestCreateProductDuplicateSKUConflicts(t *testing.T) {
	svc, repo := newTestCatalog(t)
	repo.createErr = errors.New(`duplicate key value violates unique constraint "idx_products_sku"`)

	_, err := svc.Create(context.Background(), CreateProductRequest{Name: "Kopi", SKU: "SKU-1", Price: 1000})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _ := newTestCatalog(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductRequest{Name: "Kopi", SKU: "SKU-1", Price: 15000, Stock: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newPrice := int64(17000)
	updated, err := svc.Update(ctx, product.ID, UpdateProductRequest{Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 17000 || updated.Name != "Kopi" || updated.Stock != 10 {
		t.Fatalf("partial update touched other fields: %+v", updated)
	}

	negative := int64(-1)
	if _, err := svc.Update(ctx, product.ID, UpdateProductRequest{Price: &negative}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteIsSoft(t *testing.T) {
	svc, repo := newTestCatalog(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductRequest{Name: "Kopi", SKU: "SKU-1", Price: 1000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, product.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The row is still there, only deactivated.
	stored := repo.products[product.ID]
	if stored == nil || stored.IsActive {
		t.Fatalf("delete must deactivate, not remove: %+v", stored)
	}

	rows, _, err := svc.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("default listing must hide inactive products, got %d", len(rows))
	}

	rows, _, err = svc.List(ctx, ListFilter{IncludeInactive: true})
	if err != nil {
		t.Fatalf("list inactive: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("admin listing must include inactive products, got %d", len(rows))
	}
}

func TestDeleteMissingProduct(t *testing.T) {
	svc, _ := newTestCatalog(t)

	err := svc.Delete(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateCategory(t *testing.T) {
	svc, _ := newTestCatalog(t)
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "  "}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	category, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: " Minuman "})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if category.Name != "Minuman" {
		t.Fatalf("name not trimmed: %q", category.Name)
	}
}
