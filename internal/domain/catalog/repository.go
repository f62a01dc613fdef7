package catalog

import "context"

// Repository is the product store. Lookups only see active products; Remove
// flips Active off instead of deleting. Stock mutations are serialized per
// product by the implementation.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
	FindByName(ctx context.Context, name string) ([]*Product, error)
	Add(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Remove(ctx context.Context, id int64) (bool, error)

	HasStock(ctx context.Context, id int64, quantity int) (bool, error)
	ReduceStock(ctx context.Context, id int64, quantity int) (bool, error)
	AddStock(ctx context.Context, id int64, quantity int) (bool, error)
}
