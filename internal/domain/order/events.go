package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderCreatedEvent is emitted when a new order is accepted.
type OrderCreatedEvent struct {
	OrderID       int64
	CustomerEmail string
	ItemCount     int
	Total         decimal.Decimal
	OccurredAt    time.Time
}

func (OrderCreatedEvent) EventName() string { return "order.created" }

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:       o.ID,
		CustomerEmail: o.CustomerEmail,
		ItemCount:     len(o.Items),
		Total:         o.Total,
		OccurredAt:    time.Now().UTC(),
	}
}

// OrderConfirmedEvent is emitted after stock has been taken for every item.
type OrderConfirmedEvent struct {
	OrderID    int64
	OccurredAt time.Time
}

func (OrderConfirmedEvent) EventName() string { return "order.confirmed" }

func NewOrderConfirmedEvent(o *Order) OrderConfirmedEvent {
	return OrderConfirmedEvent{OrderID: o.ID, OccurredAt: time.Now().UTC()}
}

// OrderCancelledEvent is emitted when an order is cancelled, either directly
// or as a consequence of a refund.
type OrderCancelledEvent struct {
	OrderID    int64
	Restocked  bool
	OccurredAt time.Time
}

func (OrderCancelledEvent) EventName() string { return "order.cancelled" }

func NewOrderCancelledEvent(o *Order, restocked bool) OrderCancelledEvent {
	return OrderCancelledEvent{OrderID: o.ID, Restocked: restocked, OccurredAt: time.Now().UTC()}
}
