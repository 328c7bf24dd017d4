package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaishnavid04/Everwear/internal/catalog"
	"github.com/vaishnavid04/Everwear/internal/domain"
)

func setupTestDB(t *testing.T) *catalog.Repository {
	// Use in-memory database for tests
	repo, err := catalog.NewRepository(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}

	// Run migrations
	if err := repo.RunMigrations("./migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return repo
}

func TestListProducts_Returns5AfterMigrations(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	products, err := repo.ListProducts(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 5) // migration seeds 5 products
}

func TestListProducts_WithContext(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*1)
	defer cancel()

	products, err := repo.ListProducts(ctx)

	require.NoError(t, err)
	assert.Len(t, products, 5)
}

func TestListProductsByCategory(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	products, err := repo.ListProductsByCategory(context.Background(), "women")

	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, "women", p.Category)
	}
}

func TestGetProduct(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	product, err := repo.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Beanie", product.Name)
	assert.Equal(t, 28.0, product.Price)
	assert.Contains(t, product.Colors, "black")
	assert.Equal(t, []string{"One Size"}, product.Sizes)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	product, err := repo.GetProduct(context.Background(), 9999)

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Nil(t, product)
}

func TestGetProduct_SaleBeatsListPrice(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	product, err := repo.GetProduct(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, 48.0, product.Price)
	assert.Equal(t, 38.0, product.SalePrice)
	assert.Equal(t, 38.0, product.EffectivePrice())
}

func TestCreateProduct(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	id, err := repo.CreateProduct(context.Background(), &domain.Product{
		Name:       "Wool Scarf",
		Price:      42,
		Category:   "accessories",
		ImageURL:   "/images/scarf-1.jpg",
		Colors:     []string{"cream"},
		Sizes:      []string{"One Size"},
		StockCount: 25,
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(5))

	got, err := repo.GetProduct(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Wool Scarf", got.Name)
	assert.Equal(t, []string{"cream"}, got.Colors)
}
