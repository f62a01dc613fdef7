package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/shopfront/orderapi/internal/domain/order"
	"github.com/shopfront/orderapi/internal/infrastructure/memory"
)

func newOrder(t *testing.T, email string) *domain.Order {
	t.Helper()
	o, err := domain.New(email, []domain.LineItem{
		{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
	}, decimal.NewFromInt(50))
	require.NoError(t, err)
	return o
}

func TestOrderRepositoryAddAssignsSequentialIDs(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()

	first := newOrder(t, "ana@example.com")
	second := newOrder(t, "bob@example.com")
	require.NoError(t, repo.Add(ctx, first))
	require.NoError(t, repo.Add(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestOrderRepositoryConcurrentAdds(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()

	const n = 50
	pending := make([]*domain.Order, n)
	for i := range pending {
		pending[i] = newOrder(t, "ana@example.com")
	}

	var wg sync.WaitGroup
	for _, o := range pending {
		wg.Add(1)
		go func(o *domain.Order) {
			defer wg.Done()
			assert.NoError(t, repo.Add(ctx, o))
		}(o)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for id := int64(1); id <= n; id++ {
		o, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, seen[o.ID], "id %d assigned twice", o.ID)
		seen[o.ID] = true
	}
}

func TestOrderRepositoryUpdate(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()

	o := newOrder(t, "ana@example.com")
	require.NoError(t, repo.Add(ctx, o))

	o.Confirm()
	require.NoError(t, repo.Update(ctx, o))

	stored, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)

	ghost := newOrder(t, "ana@example.com")
	ghost.ID = 404
	assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrNotFound)
}

func TestOrderRepositoryFindByID(t *testing.T) {
	repo := memory.NewOrderRepository()

	_, err := repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderRepositoryFindByCustomer(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, newOrder(t, "Ana@Example.com")))
	require.NoError(t, repo.Add(ctx, newOrder(t, "bob@example.com")))

	orders, err := repo.FindByCustomer(ctx, "ana@example.COM")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	orders, err = repo.FindByCustomer(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepositoryCloneIsolation(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()

	o := newOrder(t, "ana@example.com")
	require.NoError(t, repo.Add(ctx, o))

	// Mutating the caller's copy after Add must not touch the stored order.
	o.Status = domain.StatusCancelled
	o.Items[0].Quantity = 99

	stored, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Equal(t, 1, stored.Items[0].Quantity)
}
