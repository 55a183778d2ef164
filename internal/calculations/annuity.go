package calculations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-credit-go/pkg/utils"
)

const (
	// workingScale: знаков после запятой в промежуточных значениях
	workingScale int32 = 34
	// guardScale: запас точности при возведении в степень
	guardScale int32 = 40
)

var (
	one = decimal.NewFromInt(1)
)

// MonthlyPayment рассчитывает фиксированный аннуитетный платеж.
// При нулевой ставке долг делится поровну без округления,
// иначе P·r(1+r)^n / ((1+r)^n − 1) с округлением до копеек.
func MonthlyPayment(principal, monthlyRate decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if termMonths <= 0 {
		return decimal.Zero, fmt.Errorf("%w: term must be positive, got %d", ErrInvalidArgument, termMonths)
	}
	if principal.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: principal must not be negative", ErrInvalidArgument)
	}
	if monthlyRate.LessThanOrEqual(one.Neg()) {
		return decimal.Zero, fmt.Errorf("%w: monthly rate must be greater than -1", ErrInvalidArgument)
	}

	n := decimal.NewFromInt(int64(termMonths))
	if monthlyRate.IsZero() {
		return principal.DivRound(n, workingScale), nil
	}

	rateFactor := powInt(one.Add(monthlyRate), termMonths)
	numerator := mul(monthlyRate, rateFactor)
	denominator := rateFactor.Sub(one)
	if denominator.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: annuity denominator is zero", ErrInvalidArgument)
	}

	payment := mul(principal, numerator).DivRound(denominator, workingScale)
	return utils.Round2(payment), nil
}

// powInt возводит base в целую неотрицательную степень n
// с округлением каждого шага до guardScale знаков
func powInt(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(guardScale)
		}
		base = base.Mul(base).Round(guardScale)
		n >>= 1
	}
	return result
}

func mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(workingScale)
}
