package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		expected string
	}{
		{"basic", "150000000", 8, "1.5"},
		{"whole number", "100000000", 8, "1"},
		{"smallest unit", "1", 8, "0.00000001"},
		{"zero", "0", 18, "0"},
		{"zero decimals", "100", 0, "100"},
		{"one coin with 18 decimals", "1000000000000000000", 18, "1"},
		{"trailing integer zeros kept", "1000", 1, "100"},
		{"negative", "-150000000", 8, "-1.5"},
		{"small negative", "-1", 2, "-0.01"},
		{"fee scenario", "-710", 3, "-0.71"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FromBaseUnits(tt.amount, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFromBaseUnits_InvalidAmount(t *testing.T) {
	_, err := FromBaseUnits("1.5", 8)
	assert.ErrorIs(t, err, ErrInvalidAmountFormat)
}
