package validators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-credit-go/internal/config"
	"github.com/cloud-ru/mcp-credit-go/pkg/utils"
)

// ValidatePositiveNumber проверяет, что число конечно и лежит в [min; max]
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: значение не является конечным числом", name)
	}
	if value < minInclusive {
		return fmt.Errorf("%s: значение должно быть ≥ %g", name, minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%s: значение слишком велико (>%g)", name, maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%s: значение должно быть в диапазоне [%d; %d]", name, minInclusive, maxInclusive)
	}
	return nil
}

// ValidateDecimalRange проверяет, что decimal лежит в [min; max]
func ValidateDecimalRange(name string, value, minInclusive, maxInclusive decimal.Decimal) error {
	if value.LessThan(minInclusive) {
		return fmt.Errorf("%s: значение должно быть ≥ %s", name, minInclusive)
	}
	if value.GreaterThan(maxInclusive) {
		return fmt.Errorf("%s: значение слишком велико (>%s)", name, maxInclusive)
	}
	return nil
}

// CheckPrincipal проверяет сумму кредита: строго больше нуля
func CheckPrincipal(cfg *config.Config, principal decimal.Decimal) error {
	if !principal.IsPositive() {
		return fmt.Errorf("principal: сумма кредита должна быть больше нуля")
	}
	return ValidateDecimalRange("principal", principal, decimal.Zero, decimal.NewFromFloat(cfg.MaxPrincipal))
}

// CheckRate проверяет годовую ставку в процентах
func CheckRate(cfg *config.Config, name string, percent decimal.Decimal) error {
	return ValidateDecimalRange(name, percent, decimal.Zero, decimal.NewFromFloat(cfg.MaxRate))
}

// CheckMonthlyRate проверяет месячную ставку в долях (0.01 = 1%)
func CheckMonthlyRate(cfg *config.Config, name string, rate decimal.Decimal) error {
	limit := utils.FromPercent(decimal.NewFromFloat(cfg.MaxRate), 10)
	return ValidateDecimalRange(name, rate, decimal.Zero, limit)
}

// CheckMonths проверяет срок в месяцах
func CheckMonths(cfg *config.Config, months int) error {
	return ValidateIntRange("months", months, 1, cfg.MaxMonths)
}

// CheckGrace проверяет льготный период: не длиннее лимита и короче срока
func CheckGrace(cfg *config.Config, graceMonths, termMonths int) error {
	if err := ValidateIntRange("grace_months", graceMonths, 0, cfg.MaxGraceMonths); err != nil {
		return err
	}
	if graceMonths > 0 && graceMonths >= termMonths {
		return fmt.Errorf("grace_months: льготный период (%d) должен быть короче срока (%d)", graceMonths, termMonths)
	}
	return nil
}

// CheckInsuranceRate проверяет месячную ставку страхования в долях
func CheckInsuranceRate(name string, rate decimal.Decimal) error {
	return ValidateDecimalRange(name, rate, decimal.Zero, decimal.NewFromInt(1))
}

// CheckNonNegativeAmount проверяет денежную сумму (комиссии, стоимость имущества)
func CheckNonNegativeAmount(cfg *config.Config, name string, amount decimal.Decimal) error {
	return ValidateDecimalRange(name, amount, decimal.Zero, decimal.NewFromFloat(cfg.MaxPrincipal))
}

// CheckCashFlows проверяет поток платежей: не пустой, не длиннее MaxMonths+1
func CheckCashFlows(cfg *config.Config, flows []decimal.Decimal) error {
	if len(flows) == 0 {
		return fmt.Errorf("cash_flows: поток платежей пуст")
	}
	return ValidateIntRange("cash_flows", len(flows), 1, cfg.MaxMonths+1)
}
