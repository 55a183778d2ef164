package calculations

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GenerateSchedule строит полный график платежей за один проход.
//
// В льготный период типа GraceTotal проценты начисляются, но не
// выплачиваются и капитализируются в остаток; в GracePartial выплачиваются
// только проценты. На периоде Grace.Months+1 платеж пересчитывается от
// текущего остатка на оставшийся срок. В последнем периоде основной долг
// равен остатку, поэтому итоговый остаток всегда нулевой.
func GenerateSchedule(in ScheduleInput) ([]AmortizationEntry, error) {
	if in.TermMonths <= 0 {
		return nil, fmt.Errorf("%w: term must be positive, got %d", ErrInvalidArgument, in.TermMonths)
	}
	if in.Principal.IsNegative() {
		return nil, fmt.Errorf("%w: principal must not be negative", ErrInvalidArgument)
	}
	if in.Grace.Months < 0 {
		return nil, fmt.Errorf("%w: grace period must not be negative", ErrInvalidArgument)
	}
	if in.Grace.Months >= in.TermMonths {
		return nil, fmt.Errorf("%w: grace period (%d) must be shorter than the term (%d)",
			ErrInvalidArgument, in.Grace.Months, in.TermMonths)
	}

	rate := in.MonthlyRate
	costs := in.Costs
	graceMonths := in.Grace.Months

	deliveryFee := decimal.Zero
	if costs.StatementDelivery == DeliveryPhysical {
		deliveryFee = costs.PhysicalDeliveryFee
	}
	propertyInsurance := mul(costs.PropertyValue, costs.PropertyInsuranceRate)

	schedule := make([]AmortizationEntry, 0, in.TermMonths)
	balance := in.Principal
	cumPrincipal := decimal.Zero
	cumInterest := decimal.Zero
	basePayment := in.InitialPayment

	for period := 1; period <= in.TermMonths; period++ {
		isGrace := period <= graceMonths
		capitalizes := isGrace && in.Grace.Type == GraceTotal

		if graceMonths > 0 && period == graceMonths+1 {
			recalculated, err := MonthlyPayment(balance, rate, in.TermMonths-graceMonths)
			if err != nil {
				return nil, fmt.Errorf("recalculating payment after grace period: %w", err)
			}
			basePayment = recalculated
		}

		beginning := balance
		interest := mul(balance, rate)
		var principalPart, scheduled decimal.Decimal

		switch {
		case capitalizes:
			principalPart = decimal.Zero
			scheduled = decimal.Zero
			balance = balance.Add(interest)
		case isGrace && in.Grace.Type == GracePartial:
			principalPart = decimal.Zero
			scheduled = interest
		case period == in.TermMonths:
			principalPart = balance
			basePayment = principalPart.Add(interest)
			scheduled = basePayment
		default:
			principalPart = basePayment.Sub(interest)
			scheduled = basePayment
		}

		// при капитализации страховка считается от остатка после начисления
		lifeInsurance := mul(balance, costs.LifeInsuranceRate)

		total := scheduled.
			Add(lifeInsurance).
			Add(propertyInsurance).
			Add(costs.Commissions).
			Add(costs.AdminCosts).
			Add(deliveryFee)

		ending := balance
		if !capitalizes {
			ending = balance.Sub(principalPart)
		}

		cumPrincipal = cumPrincipal.Add(principalPart)
		cumInterest = cumInterest.Add(interest)

		schedule = append(schedule, AmortizationEntry{
			Period:              period,
			BeginningBalance:    beginning,
			ScheduledPayment:    scheduled,
			PrincipalPayment:    principalPart,
			InterestPayment:     interest,
			LifeInsurance:       lifeInsurance,
			PropertyInsurance:   propertyInsurance,
			Commissions:         costs.Commissions,
			AdminCosts:          costs.AdminCosts,
			DeliveryFee:         deliveryFee,
			TotalPayment:        total,
			EndingBalance:       ending,
			CumulativePrincipal: cumPrincipal,
			CumulativeInterest:  cumInterest,
			CashFlow:            total.Neg(),
			IsGracePeriod:       isGrace,
		})

		balance = ending
	}

	return schedule, nil
}
