package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/money"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"70", "$70.00"},
		{"0", "$0.00"},
		{"12.345", "$12.35"},
		{"-4.5", "-$4.50"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, money.Format(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 114.0, money.Percent(decimal.NewFromInt(570), decimal.NewFromInt(500)))
	assert.Equal(t, 0.0, money.Percent(decimal.NewFromInt(570), decimal.Zero))
}
