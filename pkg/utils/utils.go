package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 округляет денежную сумму до 2 знаков (half-up)
func Round2(value decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(value, 2)
}

// RoundHalfUp округляет до places знаков; половина округляется от нуля
func RoundHalfUp(value decimal.Decimal, places int32) decimal.Decimal {
	return value.Round(places)
}

// ToPercent переводит долю в проценты и округляет до places знаков
func ToPercent(fraction decimal.Decimal, places int32) decimal.Decimal {
	return RoundHalfUp(fraction.Mul(hundred), places)
}

// FromPercent переводит проценты в долю
func FromPercent(percent decimal.Decimal, scale int32) decimal.Decimal {
	return percent.DivRound(hundred, scale)
}

// WithinTolerance проверяет |a-b| <= tolerance
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}
