package payment

import "context"

// Repository stores payment records keyed by order id.
type Repository interface {
	Save(ctx context.Context, record *Record) error
	Update(ctx context.Context, record *Record) error
	FindByOrder(ctx context.Context, orderID int64) (*Record, error)
	All(ctx context.Context) ([]*Record, error)
}
