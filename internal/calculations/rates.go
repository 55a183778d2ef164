package calculations

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-credit-go/pkg/utils"
)

// MonthlyEffectiveRate переводит годовую ставку (в процентах) в эффективную
// месячную (TEM). Для TE используется фиксированный показатель 30/360,
// период учитывается только для TN.
func MonthlyEffectiveRate(annualRate decimal.Decimal, kind RateKind, period Period) (decimal.Decimal, error) {
	r := utils.FromPercent(annualRate, workingScale).InexactFloat64()

	switch kind {
	case RateEffective:
		return rateFromFloat(math.Pow(1.0+r, 30.0/360.0) - 1.0)
	case RateNominal:
		m := float64(period.CompoundingsPerYear())
		return rateFromFloat(math.Pow(1.0+r/m, m/12.0) - 1.0)
	}
	return decimal.Zero, fmt.Errorf("%w: invalid rate kind %v", ErrInvalidArgument, kind)
}

// ConvertToMonthly переводит ставку, заданную за period, в TEM.
// Для TE показатель степени равен 30/дней_в_периоде. Для TN ставка сначала
// приводится к годовой номинальной j = r·360/дней, затем капитализируется
// с частотой capitalization (или period, если capitalization не задан).
func ConvertToMonthly(rate decimal.Decimal, kind RateKind, period, capitalization Period) (decimal.Decimal, error) {
	r := utils.FromPercent(rate, workingScale).InexactFloat64()
	days := float64(period.DaysInPeriod())

	switch kind {
	case RateEffective:
		return rateFromFloat(math.Pow(1.0+r, 30.0/days) - 1.0)
	case RateNominal:
		j := r * (360.0 / days)
		capPeriod := period
		if capitalization != PeriodUnspecified {
			capPeriod = capitalization
		}
		m := float64(capPeriod.CompoundingsPerYear())
		return rateFromFloat(math.Pow(1.0+j/m, m/12.0) - 1.0)
	}
	return decimal.Zero, fmt.Errorf("%w: invalid rate kind %v", ErrInvalidArgument, kind)
}

// OpportunityCostRate возвращает месячную ставку дисконтирования (COK)
func OpportunityCostRate(oc OpportunityCost) (decimal.Decimal, error) {
	return ConvertToMonthly(oc.Rate, oc.Kind, oc.Period, oc.Capitalization)
}

func rateFromFloat(v float64) (decimal.Decimal, error) {
	if !utils.IsFinite(v) {
		return decimal.Zero, fmt.Errorf("%w: rate conversion produced a non-finite value", ErrInvalidArgument)
	}
	return decimal.NewFromFloat(v), nil
}
