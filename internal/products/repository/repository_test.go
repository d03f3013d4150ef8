package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	db "github.com/owaisraza72/Full-Stack-E-Commerce/internal/products/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seededMug = "7b1c2f0e-0001-4c55-9d8e-3f6a1b2c0001"

func setupTestDB(t *testing.T) *db.Repository {
	// Use in-memory database for tests
	repo, err := db.NewRepository(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	if err := repo.RunMigrations("./migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return repo
}

func TestListProducts_Returns5AfterMigrations(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 5)
}

func TestListProducts_CancelledContext(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListProducts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetProduct_ReturnsProduct(t *testing.T) {
	repo := setupTestDB(t)

	product, err := repo.GetProduct(context.Background(), seededMug)
	require.NoError(t, err)
	assert.Equal(t, "Ceramic Mug", product.Name)
	assert.Equal(t, 12.5, product.Price)
	assert.Equal(t, 40, product.Stock)
	assert.Equal(t, 2026, product.CreatedAt.Year())
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, db.ErrProductNotFound)
}

func TestCreateProduct(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	p := &domain.Product{
		Name:        "Wool Scarf",
		SellerID:    "seller-1",
		Price:       29.9,
		Description: "Merino wool scarf, one size.",
		ImageURL:    "https://images.example.com/scarf.jpg",
		Category:    "accessories",
		Stock:       7,
	}
	require.NoError(t, repo.CreateProduct(ctx, p))
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "seller-1", got.SellerID)
	assert.Equal(t, 29.9, got.Price)
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Second)

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 6)
	assert.Equal(t, p.ID, products[0].ID, "newest product first")
}

func TestUpdateProduct(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	p, err := repo.GetProduct(ctx, seededMug)
	require.NoError(t, err)
	p.Price = 15
	p.Stock = 0
	p.SellerID = "someone-else"
	require.NoError(t, repo.UpdateProduct(ctx, p))

	got, err := repo.GetProduct(ctx, seededMug)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.Price)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, "catalog", got.SellerID, "seller is immutable")
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestUpdateProduct_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.UpdateProduct(context.Background(), &domain.Product{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, db.ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.DeleteProduct(ctx, seededMug))
	_, err := repo.GetProduct(ctx, seededMug)
	assert.ErrorIs(t, err, db.ErrProductNotFound)

	assert.ErrorIs(t, repo.DeleteProduct(ctx, seededMug), db.ErrProductNotFound)
}
