package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	t.Parallel()
	tests := []struct {
		minor    int64
		currency string
		want     string
	}{
		{minor: 2400, currency: "USD", want: "$24.00"},
		{minor: 5, currency: "usd", want: "$0.05"},
		{minor: 123450, currency: "USD", want: "$1,234.50"},
		{minor: -1999, currency: "USD", want: "-$19.99"},
		{minor: 0, currency: "", want: "$0.00"},
		{minor: 1050, currency: "AED", want: "AED 10.50"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Currency(tc.minor, tc.currency))
	}
}

func TestDecimal(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "204.00", Decimal(20400))
	assert.Equal(t, "1234.56", Decimal(123456))
	assert.Equal(t, "0.07", Decimal(7))
	assert.Equal(t, "-3.10", Decimal(-310))
}

func TestCount(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0", Count(0))
	assert.Equal(t, "42", Count(42))
	assert.Equal(t, "99+", Count(150))
}
