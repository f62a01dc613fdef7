package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/shopfront/orderapi/internal/domain/catalog"
)

// ProductRepository is a mutex-guarded map store. Stock mutations run under
// the write lock, which serializes them per the concurrency contract.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[int64]*domain.Product),
		nextID:   1,
	}
}

// SeedDemoCatalog loads the sample products used by the demo deployment.
func (r *ProductRepository) SeedDemoCatalog(ctx context.Context) error {
	seed := []*domain.Product{
		{Name: "Notebook", Description: "Work notebook", Price: decimal.NewFromFloat(2500.00), Stock: 10, Active: true},
		{Name: "Mouse", Description: "Wireless mouse", Price: decimal.NewFromFloat(50.00), Stock: 25, Active: true},
		{Name: "Keyboard", Description: "Mechanical keyboard", Price: decimal.NewFromFloat(150.00), Stock: 15, Active: true},
	}
	for _, p := range seed {
		if err := r.Add(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok || !product.Active {
		return nil, domain.ErrNotFound
	}
	return product.Clone(), nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if product.Active {
			out = append(out, product.Clone())
		}
	}
	return out, nil
}

func (r *ProductRepository) FindByName(ctx context.Context, name string) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Product
	for _, product := range r.products {
		if product.Active && strings.Contains(strings.ToLower(product.Name), strings.ToLower(name)) {
			out = append(out, product.Clone())
		}
	}
	return out, nil
}

func (r *ProductRepository) Add(ctx context.Context, product *domain.Product) error {
	_ = ctx
	if product == nil {
		return fmt.Errorf("product repository: product is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	r.products[product.ID] = product.Clone()
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	_ = ctx
	if product == nil || product.ID == 0 {
		return fmt.Errorf("product repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	r.products[product.ID] = product.Clone()
	return nil
}

// Remove is a soft delete; the product stays in the map with Active off.
func (r *ProductRepository) Remove(ctx context.Context, id int64) (bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return false, nil
	}
	product.Active = false
	return true, nil
}

func (r *ProductRepository) HasStock(ctx context.Context, id int64, quantity int) (bool, error) {
	_ = ctx
	if quantity <= 0 {
		return false, domain.ErrInvalidQuantity
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	return ok && product.HasStock(quantity), nil
}

func (r *ProductRepository) ReduceStock(ctx context.Context, id int64, quantity int) (bool, error) {
	_ = ctx
	if quantity <= 0 {
		return false, domain.ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || !product.Active || product.Stock < quantity {
		return false, nil
	}
	product.Stock -= quantity
	return true, nil
}

func (r *ProductRepository) AddStock(ctx context.Context, id int64, quantity int) (bool, error) {
	_ = ctx
	if quantity <= 0 {
		return false, domain.ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || !product.Active {
		return false, nil
	}
	product.Stock += quantity
	return true, nil
}
