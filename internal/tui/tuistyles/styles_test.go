package tuistyles

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"12.5", "$12.50"},
		{"999.999", "$1,000.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-2500", "-$2,500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.in)))
		})
	}
}
