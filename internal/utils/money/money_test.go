package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.True(t, Round(decimal.RequireFromString("10.005")).Equal(decimal.RequireFromString("10.01")))
	assert.True(t, Round(decimal.RequireFromString("10.004")).Equal(decimal.RequireFromString("10.00")))
	assert.True(t, Round(decimal.NewFromInt(10)).Equal(decimal.NewFromInt(10)))
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		amount string
		pct    string
		want   string
	}{
		{"200", "2", "4"},
		{"100", "2", "2"},
		{"50", "2", "1"},
		{"33", "2", "0.66"},
		{"10", "3.5", "0.35"},
		{"0", "2", "0"},
	}

	for _, tt := range tests {
		got := PercentOf(decimal.RequireFromString(tt.amount), decimal.RequireFromString(tt.pct))
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
			"PercentOf(%s, %s) = %s, want %s", tt.amount, tt.pct, got.String(), tt.want)
	}
}
