package utils

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "round to 2 decimals",
			input: "123.456789",
			want:  "123.46",
		},
		{
			name:  "half rounds up",
			input: "0.125",
			want:  "0.13",
		},
		{
			name:  "negative half rounds away from zero",
			input: "-0.125",
			want:  "-0.13",
		},
		{
			name:  "already 2 decimals",
			input: "123.45",
			want:  "123.45",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(decimal.RequireFromString(tt.input))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "Round2() = %s, want %s", got, tt.want)
		})
	}
}

func TestPercentConversions(t *testing.T) {
	got := ToPercent(decimal.RequireFromString("0.0094887929"), 4)
	assert.Equal(t, "0.9489", got.String())

	frac := FromPercent(decimal.NewFromInt(12), 34)
	assert.True(t, frac.Equal(decimal.RequireFromString("0.12")))
}

func TestWithinTolerance(t *testing.T) {
	tol := decimal.RequireFromString("0.01")
	assert.True(t, WithinTolerance(decimal.RequireFromString("1.005"), decimal.NewFromInt(1), tol))
	assert.False(t, WithinTolerance(decimal.RequireFromString("1.02"), decimal.NewFromInt(1), tol))
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  bool
	}{
		{
			name:  "finite number",
			input: 123.45,
			want:  true,
		},
		{
			name:  "infinity",
			input: math.Inf(1),
			want:  false,
		},
		{
			name:  "negative infinity",
			input: math.Inf(-1),
			want:  false,
		},
		{
			name:  "NaN",
			input: math.NaN(),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsFinite(tt.input)
			if got != tt.want {
				t.Errorf("IsFinite() = %v, want %v", got, tt.want)
			}
		})
	}
}
