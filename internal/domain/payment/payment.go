package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("payment: not found")
	ErrMethodRequired    = errors.New("payment: method is required")
	ErrInvalidAmount     = errors.New("payment: amount must be greater than zero")
	ErrUnsupportedMethod = errors.New("payment: method not supported")
	ErrOrderNotConfirmed = errors.New("payment: only confirmed orders can be paid")
	ErrAmountMismatch    = errors.New("payment: amount does not match order total")
	ErrBlockedAmount     = errors.New("payment: amount is blocked, contact support")
)

type Method string

const (
	MethodCreditCard   Method = "CreditCard"
	MethodDebitCard    Method = "DebitCard"
	MethodPix          Method = "Pix"
	MethodBankSlip     Method = "BankSlip"
	MethodBankTransfer Method = "BankTransfer"
)

// Methods returns the fixed ordered set of supported payment methods.
func Methods() []Method {
	return []Method{
		MethodCreditCard,
		MethodDebitCard,
		MethodPix,
		MethodBankSlip,
		MethodBankTransfer,
	}
}

// IsSupported reports whether m belongs to the fixed method set.
func IsSupported(m Method) bool {
	for _, known := range Methods() {
		if m == known {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusRefunded Status = "refunded"
)

// Record is a settled payment, keyed by order id. Records are created on
// capture, flipped to refunded on refund, and never deleted.
type Record struct {
	OrderID    int64
	Method     Method
	Amount     decimal.Decimal
	PaidAt     time.Time
	RefundedAt *time.Time
	Status     Status
}

// Refund marks an approved record refunded. Anything else is a no-op and
// reports false, which makes refunds idempotent.
func (r *Record) Refund(at time.Time) bool {
	if r.Status != StatusApproved {
		return false
	}
	r.Status = StatusRefunded
	r.RefundedAt = &at
	return true
}

func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	if r.RefundedAt != nil {
		at := *r.RefundedAt
		clone.RefundedAt = &at
	}
	return &clone
}
