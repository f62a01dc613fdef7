package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []LineItem {
	return []LineItem{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(2500)},
		{ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
	}
}

func TestNewOrder(t *testing.T) {
	items := testItems()
	o, err := New("ana@example.com", items, SumSubtotals(items))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "ana@example.com", o.CustomerEmail)
	assert.True(t, decimal.NewFromInt(5050).Equal(o.Total))
	assert.False(t, o.CreatedAt.IsZero())
	assert.Nil(t, o.PaidAt)
}

func TestNewOrderValidation(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		items   []LineItem
		wantErr error
	}{
		{"empty email", "", testItems(), ErrCustomerRequired},
		{"no items", "ana@example.com", nil, ErrNoItems},
		{"zero quantity", "ana@example.com", []LineItem{{ProductID: 1, Quantity: 0}}, ErrInvalidQuantity},
		{"negative quantity", "ana@example.com", []LineItem{{ProductID: 1, Quantity: -2}}, ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.email, tt.items, decimal.Zero)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLineItemSubtotal(t *testing.T) {
	item := LineItem{ProductID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("19.90")}
	assert.True(t, decimal.RequireFromString("59.70").Equal(item.Subtotal()))
}

func TestConfirmTransitions(t *testing.T) {
	tests := []struct {
		from Status
		want bool
	}{
		{StatusPending, true},
		{StatusConfirmed, false},
		{StatusPaid, false},
		{StatusShipped, false},
		{StatusDelivered, false},
		{StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			o := &Order{Status: tt.from}
			assert.Equal(t, tt.want, o.Confirm())
			if tt.want {
				assert.Equal(t, StatusConfirmed, o.Status)
			} else {
				assert.Equal(t, tt.from, o.Status)
			}
		})
	}
}

func TestCancelTransitions(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusConfirmed, StatusPaid, StatusShipped, StatusDelivered} {
		t.Run(string(from), func(t *testing.T) {
			o := &Order{Status: from}
			assert.True(t, o.Cancel())
			assert.Equal(t, StatusCancelled, o.Status)
		})
	}

	t.Run("already cancelled", func(t *testing.T) {
		o := &Order{Status: StatusCancelled}
		assert.False(t, o.Cancel())
		assert.Equal(t, StatusCancelled, o.Status)
	})
}

func TestNeedsRestock(t *testing.T) {
	assert.False(t, (&Order{Status: StatusPending}).NeedsRestock())
	assert.True(t, (&Order{Status: StatusConfirmed}).NeedsRestock())
	assert.True(t, (&Order{Status: StatusPaid}).NeedsRestock())
	assert.False(t, (&Order{Status: StatusShipped}).NeedsRestock())
	assert.False(t, (&Order{Status: StatusCancelled}).NeedsRestock())
}

func TestMarkPaid(t *testing.T) {
	o := &Order{Status: StatusConfirmed}
	at := time.Now().UTC()
	o.MarkPaid("Pix", at)

	assert.Equal(t, StatusPaid, o.Status)
	require.NotNil(t, o.PaidAt)
	assert.Equal(t, at, *o.PaidAt)
	assert.Equal(t, "Pix", o.PaymentMethod)
}

func TestCloneIsolation(t *testing.T) {
	items := testItems()
	o, err := New("ana@example.com", items, SumSubtotals(items))
	require.NoError(t, err)

	clone := o.Clone()
	clone.Status = StatusCancelled
	clone.Items[0].Quantity = 99

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 2, o.Items[0].Quantity)
}
