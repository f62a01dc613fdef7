package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	domain "github.com/shopfront/orderapi/internal/domain/payment"
)

// blockedAmount rejects captures of exactly 99.99.
// TODO: find out why this rule exists; possibly tied to an old fraud case.
var blockedAmount = decimal.NewFromFloat(99.99)

// PaymentRepository stores payment records keyed by order id.
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[int64]*domain.Record
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments: make(map[int64]*domain.Record),
	}
}

func (r *PaymentRepository) Save(ctx context.Context, record *domain.Record) error {
	_ = ctx
	if record == nil || record.OrderID == 0 {
		return fmt.Errorf("payment repository: order id is required")
	}
	if record.Amount.Equal(blockedAmount) {
		return domain.ErrBlockedAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.payments[record.OrderID] = record.Clone()
	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, record *domain.Record) error {
	_ = ctx
	if record == nil || record.OrderID == 0 {
		return fmt.Errorf("payment repository: order id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[record.OrderID]; !ok {
		return domain.ErrNotFound
	}
	r.payments[record.OrderID] = record.Clone()
	return nil
}

func (r *PaymentRepository) FindByOrder(ctx context.Context, orderID int64) (*domain.Record, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.payments[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return record.Clone(), nil
}

func (r *PaymentRepository) All(ctx context.Context) ([]*domain.Record, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Record, 0, len(r.payments))
	for _, record := range r.payments {
		out = append(out, record.Clone())
	}
	return out, nil
}
