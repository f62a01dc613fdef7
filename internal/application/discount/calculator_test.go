package discount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestCalculateProgressiveDiscount(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name    string
		total   string
		percent string
		want    string
	}{
		{"thousand at ten percent", "1000", "10", "99"},
		{"five hundred at twenty percent", "500", "20", "96"},
		{"zero percent", "1000", "0", "0"},
		{"full percent", "200", "100", "100"},
		{"fractional total", "150.50", "10", "14.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.CalculateProgressiveDiscount(dec(t, tt.total), dec(t, tt.percent))
			require.NoError(t, err)
			assert.True(t, dec(t, tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestCalculateProgressiveDiscountArgumentOrderMatters(t *testing.T) {
	calc := NewCalculator()

	// (1000-10)*10/100 = 99, while the swapped call is invalid because 1000
	// is out of the percent range. The formula is not commutative.
	got, err := calc.CalculateProgressiveDiscount(dec(t, "1000"), dec(t, "10"))
	require.NoError(t, err)
	assert.True(t, dec(t, "99").Equal(got))

	_, err = calc.CalculateProgressiveDiscount(dec(t, "10"), dec(t, "1000"))
	assert.ErrorIs(t, err, ErrInvalidPercent)
}

func TestCalculateProgressiveDiscountValidation(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name    string
		total   string
		percent string
		wantErr error
	}{
		{"zero total", "0", "10", ErrInvalidTotal},
		{"negative total", "-5", "10", ErrInvalidTotal},
		{"negative percent", "100", "-1", ErrInvalidPercent},
		{"percent above hundred", "100", "100.01", ErrInvalidPercent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.CalculateProgressiveDiscount(dec(t, tt.total), dec(t, tt.percent))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApplyDiscount(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name     string
		total    string
		discount string
		want     string
	}{
		{"plain subtraction", "1000", "100", "900"},
		{"discount above total floors at zero", "100", "150", "0"},
		{"zero discount", "100", "0", "100"},
		{"exact total", "80", "80", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.ApplyDiscount(dec(t, tt.total), dec(t, tt.discount))
			require.NoError(t, err)
			assert.True(t, dec(t, tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestApplyDiscountValidation(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.ApplyDiscount(dec(t, "0"), dec(t, "10"))
	assert.ErrorIs(t, err, ErrInvalidTotal)

	_, err = calc.ApplyDiscount(dec(t, "100"), dec(t, "-1"))
	assert.ErrorIs(t, err, ErrNegativeDiscount)
}
