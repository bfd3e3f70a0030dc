package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:products_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  sku TEXT NOT NULL UNIQUE,
  price INTEGER NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  image_url TEXT,
  category_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func createCatalogProduct(t *testing.T, db *gorm.DB, name, sku string, price int64, stock int, categoryID *uuid.UUID) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		SKU:        sku,
		Price:      price,
		Stock:      stock,
		IsActive:   true,
		CategoryID: categoryID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryList_searchAndCategory(t *testing.T) {
	db := setupProductsTestDB(t)
	repository := NewRepository(db)
	ctx := context.Background()

	drinks := &models.Category{ID: uuid.New(), Name: "Minuman"}
	require.NoError(t, db.Create(drinks).Error)

	createCatalogProduct(t, db, "Kopi Susu", "KS-01", 15000, 10, &drinks.ID)
	createCatalogProduct(t, db, "Es Kopi", "EK-01", 12000, 5, &drinks.ID)
	createCatalogProduct(t, db, "Roti Bakar", "RB-01", 10000, 8, nil)

	rows, count, err := repository.List(ctx, ListFilter{Search: "kopi"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Len(t, rows, 2)

	// SKU is searched too.
	rows, count, err = repository.List(ctx, ListFilter{Search: "rb-"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, rows, 1)
	assert.Equal(t, "Roti Bakar", rows[0].Name)

	rows, count, err = repository.List(ctx, ListFilter{CategoryID: &drinks.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Category)
	assert.Equal(t, "Minuman", rows[0].Category.Name)
}

func TestRepositoryList_hidesSoftDeleted(t *testing.T) {
	db := setupProductsTestDB(t)
	repository := NewRepository(db)
	ctx := context.Background()

	kept := createCatalogProduct(t, db, "Kopi", "KS-01", 15000, 10, nil)
	gone := createCatalogProduct(t, db, "Teh", "TH-01", 8000, 10, nil)
	require.NoError(t, repository.SoftDelete(ctx, gone.ID))

	rows, count, err := repository.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, rows, 1)
	assert.Equal(t, kept.ID, rows[0].ID)

	rows, count, err = repository.List(ctx, ListFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Len(t, rows, 2)
}

func TestRepositoryDecrementStock(t *testing.T) {
	db := setupProductsTestDB(t)
	repository := NewRepository(db)
	ctx := context.Background()

	product := createCatalogProduct(t, db, "Kopi", "KS-01", 15000, 3, nil)

	affected, err := repository.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// Not enough stock left: no row is touched.
	affected, err = repository.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	reloaded, err := repository.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Stock)
}

func TestRepositoryFindActiveByIDs(t *testing.T) {
	db := setupProductsTestDB(t)
	repository := NewRepository(db)
	ctx := context.Background()

	active := createCatalogProduct(t, db, "Kopi", "KS-01", 15000, 3, nil)
	inactive := createCatalogProduct(t, db, "Teh", "TH-01", 8000, 3, nil)
	require.NoError(t, repository.SoftDelete(ctx, inactive.ID))

	rows, err := repository.FindActiveByIDs(ctx, []uuid.UUID{active.ID, inactive.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, active.ID, rows[0].ID)

	rows, err = repository.FindActiveByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
