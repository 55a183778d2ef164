package calculations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		months    int
		want      string
		wantError bool
	}{
		{
			name:      "basic annuity",
			principal: "100000",
			rate:      "0.01",
			months:    12,
			want:      "8884.88",
		},
		{
			name:      "zero rate divides evenly",
			principal: "1200",
			rate:      "0",
			months:    12,
			want:      "100",
		},
		{
			name:      "zero rate keeps full precision",
			principal: "100",
			rate:      "0",
			months:    3,
			want:      "33.3333333333333333333333333333333333",
		},
		{
			name:      "single period repays principal plus interest",
			principal: "1000",
			rate:      "0.05",
			months:    1,
			want:      "1050",
		},
		{
			name:      "zero term",
			principal: "1000",
			rate:      "0.01",
			months:    0,
			wantError: true,
		},
		{
			name:      "negative principal",
			principal: "-1000",
			rate:      "0.01",
			months:    12,
			wantError: true,
		},
		{
			name:      "rate at minus one",
			principal: "1000",
			rate:      "-1",
			months:    12,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MonthlyPayment(d(tt.principal), d(tt.rate), tt.months)
			if tt.wantError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "MonthlyPayment() = %s, want %s", got, tt.want)
		})
	}
}

func TestMonthlyPaymentLongTerm(t *testing.T) {
	// 30 лет, 0.5% в месяц
	got, err := MonthlyPayment(d("200000"), d("0.005"), 360)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("1199.10")), "got %s", got)
}

func TestPowInt(t *testing.T) {
	assert.True(t, powInt(d("1.01"), 0).Equal(one))
	assert.True(t, powInt(d("1.01"), 3).Equal(d("1.030301")))
	assert.True(t, powInt(d("1.01"), 12).Equal(d("1.126825030131969720661201")))
}
