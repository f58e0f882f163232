// internal/utils/money_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmountCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"whole amount", "2500", 250000, false},
		{"two decimal places", "2500.00", 250000, false},
		{"one decimal place", "2500.5", 250050, false},
		{"small amount", "0.99", 99, false},
		{"zero", "0", 0, false},
		{"negative", "-5.00", -500, false},
		{"empty string", "", 0, true},
		{"three decimal places", "10.999", 0, true},
		{"not a number", "abc", 0, true},
		{"thousands separator", "1,000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmountCents(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "2800.00", FormatCents(280000))
	assert.Equal(t, "0.99", FormatCents(99))
	assert.Equal(t, "0.00", FormatCents(0))
	assert.Equal(t, "300.00", FormatCents(30000))
	assert.Equal(t, "2500.50", FormatCents(250050))
}

// A 2x1250.00 cart plus the flat 300.00 delivery fee totals exactly
// 2800.00, with no float drift anywhere in the arithmetic.
func TestCheckoutTotalArithmetic(t *testing.T) {
	unitPrice, err := ParseAmountCents("1250.00")
	assert.NoError(t, err)

	deliveryFee, err := ParseAmountCents("300")
	assert.NoError(t, err)

	subtotal := unitPrice * 2
	assert.Equal(t, "2500.00", FormatCents(subtotal))
	assert.Equal(t, "2800.00", FormatCents(subtotal+deliveryFee))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, amount := range []string{"0.01", "18.90", "4999.99", "300.00"} {
		cents, err := ParseAmountCents(amount)
		assert.NoError(t, err)
		assert.Equal(t, amount, FormatCents(cents))
	}
}
