package order

import "context"

// Repository stores orders keyed by id. Add assigns the next sequential id
// to the order before persisting it; ids are never reused.
type Repository interface {
	Add(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id int64) (*Order, error)
	FindByCustomer(ctx context.Context, customerEmail string) ([]*Order, error)
}
