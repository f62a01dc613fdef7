package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentApprovedEvent is emitted when a capture succeeds.
type PaymentApprovedEvent struct {
	OrderID    int64
	Method     Method
	Amount     decimal.Decimal
	OccurredAt time.Time
}

func (PaymentApprovedEvent) EventName() string { return "payment.approved" }

func NewPaymentApprovedEvent(r *Record) PaymentApprovedEvent {
	return PaymentApprovedEvent{
		OrderID:    r.OrderID,
		Method:     r.Method,
		Amount:     r.Amount,
		OccurredAt: time.Now().UTC(),
	}
}

// PaymentRefundedEvent is emitted when an approved payment is reversed.
type PaymentRefundedEvent struct {
	OrderID    int64
	Amount     decimal.Decimal
	OccurredAt time.Time
}

func (PaymentRefundedEvent) EventName() string { return "payment.refunded" }

func NewPaymentRefundedEvent(r *Record) PaymentRefundedEvent {
	return PaymentRefundedEvent{
		OrderID:    r.OrderID,
		Amount:     r.Amount,
		OccurredAt: time.Now().UTC(),
	}
}
