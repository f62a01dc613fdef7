package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	domain "github.com/shopfront/orderapi/internal/domain/order"
)

// OrderRepository is a mutex-guarded map store keyed by order id. Ids come
// from an atomic counter, so they are sequential and never reused even under
// concurrent creations.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID atomic.Int64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[int64]*domain.Order),
	}
}

// Add assigns the next sequential id and persists the order.
func (r *OrderRepository) Add(ctx context.Context, order *domain.Order) error {
	_ = ctx
	if order == nil {
		return fmt.Errorf("order repository: order is required")
	}

	order.ID = r.nextID.Add(1)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	_ = ctx
	if order == nil || order.ID == 0 {
		return fmt.Errorf("order repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; !exists {
		return domain.ErrNotFound
	}
	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *OrderRepository) FindByCustomer(ctx context.Context, customerEmail string) ([]*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0)
	for _, order := range r.orders {
		if strings.EqualFold(order.CustomerEmail, customerEmail) {
			out = append(out, order.Clone())
		}
	}
	return out, nil
}
