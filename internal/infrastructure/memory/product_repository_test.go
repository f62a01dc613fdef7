package memory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/shopfront/orderapi/internal/domain/catalog"
	"github.com/shopfront/orderapi/internal/infrastructure/memory"
)

func seededProducts(t *testing.T) *memory.ProductRepository {
	t.Helper()
	repo := memory.NewProductRepository()
	require.NoError(t, repo.SeedDemoCatalog(context.Background()))
	return repo
}

func TestProductRepositorySeed(t *testing.T) {
	repo := seededProducts(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	notebook, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Notebook", notebook.Name)
	assert.True(t, decimal.NewFromFloat(2500.00).Equal(notebook.Price))
	assert.Equal(t, 10, notebook.Stock)
	assert.False(t, notebook.CreatedAt.IsZero())
}

func TestProductRepositoryFindByName(t *testing.T) {
	repo := seededProducts(t)
	ctx := context.Background()

	hits, err := repo.FindByName(ctx, "note")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Notebook", hits[0].Name)

	hits, err = repo.FindByName(ctx, "BOARD")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Keyboard", hits[0].Name)

	hits, err = repo.FindByName(ctx, "printer")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestProductRepositorySoftRemove(t *testing.T) {
	repo := seededProducts(t)
	ctx := context.Background()

	removed, err := repo.Remove(ctx, 2)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.FindByID(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Inactive products take no stock operations.
	ok, err := repo.ReduceStock(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err = repo.Remove(ctx, 404)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestProductRepositoryStockOps(t *testing.T) {
	repo := seededProducts(t)
	ctx := context.Background()

	ok, err := repo.HasStock(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasStock(ctx, 1, 11)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ReduceStock(ctx, 1, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	p, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Stock)

	// Reducing past the remaining stock is refused and changes nothing.
	ok, err = repo.ReduceStock(ctx, 1, 7)
	require.NoError(t, err)
	assert.False(t, ok)
	p, err = repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Stock)

	ok, err = repo.AddStock(ctx, 1, 4)
	require.NoError(t, err)
	assert.True(t, ok)
	p, err = repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)

	_, err = repo.ReduceStock(ctx, 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = repo.AddStock(ctx, 1, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = repo.HasStock(ctx, 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestProductRepositoryCloneIsolation(t *testing.T) {
	repo := seededProducts(t)
	ctx := context.Background()

	p, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	p.Stock = 0

	stored, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Stock)
}
