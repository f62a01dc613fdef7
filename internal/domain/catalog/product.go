package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("catalog: product not found")
	ErrInvalidQuantity   = errors.New("catalog: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("catalog: insufficient stock")
)

// Product is a sellable item. Stock is mutated only through the repository's
// stock operations; removal is a soft delete via Active.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	CreatedAt   time.Time
	Active      bool
}

// HasStock reports whether the product can cover the requested quantity.
func (p *Product) HasStock(quantity int) bool {
	return p.Active && p.Stock >= quantity
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
