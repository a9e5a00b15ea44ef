package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-catalog-cache/internal/models"
)

// newTestRepository connects to CATALOG_TEST_DATABASE_URL and empties the products table
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := os.Getenv("CATALOG_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CATALOG_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	repo, err := NewRepository(ctx, dsn, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	_, err = repo.pool.Exec(ctx, `TRUNCATE catalog.products RESTART IDENTITY`)
	require.NoError(t, err)
	return repo
}

func TestNewRepository_RequiresDSN(t *testing.T) {
	_, err := NewRepository(context.Background(), "", zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestRepository_CRUD(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	added, err := repo.Add(ctx, models.Product{Name: "MacBook Pro", Category: "Electronics", Brand: "Apple", Price: 2499.99})
	require.NoError(t, err)
	assert.Equal(t, int64(1), added.ID)
	assert.False(t, added.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "MacBook Pro", found.Name)

	updated, err := repo.Update(ctx, added.ID, models.Product{Name: "MacBook Air", Category: "Electronics", Brand: "Apple", Price: 1099})
	require.NoError(t, err)
	assert.Equal(t, "MacBook Air", updated.Name)

	require.NoError(t, repo.Delete(ctx, added.ID))
	_, err = repo.FindByID(ctx, added.ID)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, added.ID), models.ErrProductNotFound)

	_, err = repo.Update(ctx, added.ID, updated)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestRepository_Queries(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, p := range []models.Product{
		{Name: "iPhone 15", Category: "Electronics", Brand: "Apple", Price: 999},
		{Name: "100% Cotton Shirt", Category: "Clothing", Brand: "Uniqlo", Price: 19.9},
		{Name: "Galaxy S24", Category: "Electronics", Brand: "Samsung", Price: 899.5},
	} {
		_, err := repo.Add(ctx, p)
		require.NoError(t, err)
	}

	byName, err := repo.SearchByName(ctx, "IPHONE")
	require.NoError(t, err)
	require.Len(t, byName, 1)

	// % is matched literally
	literal, err := repo.SearchByName(ctx, "100%")
	require.NoError(t, err)
	assert.Len(t, literal, 1)

	electronics, err := repo.FindByCategory(ctx, "Electronics")
	require.NoError(t, err)
	assert.Len(t, electronics, 2)

	apple, err := repo.FindByBrand(ctx, "Apple")
	require.NoError(t, err)
	assert.Len(t, apple, 1)

	mid, err := repo.FindByPriceRange(ctx, 19.9, 899.5)
	require.NoError(t, err)
	assert.Len(t, mid, 2)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Clothing", "Electronics"}, categories)

	brands, err := repo.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Samsung", "Uniqlo"}, brands)
}

func TestRepository_EmptyResults(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	brands, err := repo.Brands(ctx)
	require.NoError(t, err)
	assert.Empty(t, brands)
}
