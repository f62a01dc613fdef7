package order

import "github.com/shopspring/decimal"

// DiscountCalculator computes the progressive discount applied at creation.
// Argument order matters: the order total always comes first.
type DiscountCalculator interface {
	CalculateProgressiveDiscount(orderTotal, percent decimal.Decimal) (decimal.Decimal, error)
	ApplyDiscount(orderTotal, amount decimal.Decimal) (decimal.Decimal, error)
}

// ItemInput references a catalog product by id with a requested quantity.
// Unit prices are snapshotted from the catalog, never taken from the caller.
type ItemInput struct {
	ProductID int64
	Quantity  int
}
