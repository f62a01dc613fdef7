package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("order: not found")
	ErrCustomerRequired = errors.New("order: customer email is required")
	ErrNoItems          = errors.New("order: must contain at least one item")
	ErrInvalidQuantity  = errors.New("order: quantity must be greater than zero")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// LineItem holds a product reference with the unit price snapshotted at
// order creation. Items are immutable once the order exists.
type LineItem struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID            int64
	CreatedAt     time.Time
	CustomerEmail string
	Status        Status
	Items         []LineItem
	Total         decimal.Decimal
	PaidAt        *time.Time
	PaymentMethod string
}

func New(customerEmail string, items []LineItem, total decimal.Decimal) (*Order, error) {
	if customerEmail == "" {
		return nil, ErrCustomerRequired
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	return &Order{
		CreatedAt:     time.Now().UTC(),
		CustomerEmail: customerEmail,
		Status:        StatusPending,
		Items:         items,
		Total:         total,
	}, nil
}

// Confirm moves the order from pending to confirmed. Any other starting
// status reports false.
func (o *Order) Confirm() bool {
	if o.Status != StatusPending {
		return false
	}
	o.Status = StatusConfirmed
	return true
}

// Cancel marks the order cancelled from any non-cancelled status.
func (o *Order) Cancel() bool {
	if o.Status == StatusCancelled {
		return false
	}
	o.Status = StatusCancelled
	return true
}

// NeedsRestock reports whether cancelling the order must return its items to
// stock. Only confirmed and paid orders have had stock taken.
func (o *Order) NeedsRestock() bool {
	return o.Status == StatusConfirmed || o.Status == StatusPaid
}

// MarkPaid records a successful settlement.
func (o *Order) MarkPaid(method string, at time.Time) {
	o.Status = StatusPaid
	o.PaidAt = &at
	o.PaymentMethod = method
}

// SumSubtotals computes the raw order value from the line items.
func SumSubtotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]LineItem(nil), o.Items...)
	if o.PaidAt != nil {
		at := *o.PaidAt
		clone.PaidAt = &at
	}
	return &clone
}
