package calculations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-credit-go/pkg/utils"
)

// Simulate выполняет полный расчет кредита: TEM → платеж → график →
// денежный поток заемщика → COK → VAN и TIR потока.
func Simulate(in SimulationInput) (*SimulationResult, error) {
	monthlyRate, err := MonthlyEffectiveRate(in.AnnualRate, in.RateKind, in.RatePeriod)
	if err != nil {
		return nil, fmt.Errorf("monthly effective rate: %w", err)
	}

	payment, err := MonthlyPayment(in.Principal, monthlyRate, in.TermMonths)
	if err != nil {
		return nil, fmt.Errorf("monthly payment: %w", err)
	}

	schedule, err := GenerateSchedule(ScheduleInput{
		Principal:      in.Principal,
		MonthlyRate:    monthlyRate,
		InitialPayment: payment,
		TermMonths:     in.TermMonths,
		Grace:          in.Grace,
		Costs:          in.Costs,
	})
	if err != nil {
		return nil, fmt.Errorf("amortization schedule: %w", err)
	}

	cashFlows := ScheduleCashFlows(in.Principal, schedule)

	discountRate, err := OpportunityCostRate(in.Opportunity)
	if err != nil {
		return nil, fmt.Errorf("opportunity cost rate: %w", err)
	}

	npv, err := NPVSchedule(cashFlows, discountRate)
	if err != nil {
		return nil, fmt.Errorf("npv: %w", err)
	}

	settings := in.Solver
	if settings == (SolverSettings{}) {
		settings = DefaultSolverSettings
	}
	irr, err := IRRScheduleWith(cashFlows, settings)
	if err != nil {
		return nil, fmt.Errorf("irr: %w", err)
	}

	return &SimulationResult{
		MonthlyRate:    monthlyRate,
		MonthlyPayment: payment,
		DiscountRate:   discountRate,
		NPV:            npv,
		IRR:            irr,
		Summary:        Summarize(schedule),
		CashFlows:      cashFlows,
		Schedule:       schedule,
	}, nil
}

// ScheduleCashFlows строит поток заемщика: в нулевом периоде полученная
// сумма кредита, далее денежный поток каждого периода графика.
func ScheduleCashFlows(principal decimal.Decimal, schedule []AmortizationEntry) []decimal.Decimal {
	flows := make([]decimal.Decimal, 0, len(schedule)+1)
	flows = append(flows, principal)
	for _, entry := range schedule {
		flows = append(flows, entry.CashFlow)
	}
	return flows
}

// Summarize подводит итоги по графику
func Summarize(schedule []AmortizationEntry) ScheduleSummary {
	summary := ScheduleSummary{Periods: len(schedule)}

	var scheduled, paid, principal, interest, insurance, fees decimal.Decimal
	for _, e := range schedule {
		if e.IsGracePeriod {
			summary.GracePeriods++
		}
		scheduled = scheduled.Add(e.ScheduledPayment)
		paid = paid.Add(e.TotalPayment)
		principal = principal.Add(e.PrincipalPayment)
		interest = interest.Add(e.InterestPayment)
		insurance = insurance.Add(e.LifeInsurance).Add(e.PropertyInsurance)
		fees = fees.Add(e.Commissions).Add(e.AdminCosts).Add(e.DeliveryFee)
	}

	summary.TotalScheduled = utils.Round2(scheduled)
	summary.TotalPaid = utils.Round2(paid)
	summary.TotalPrincipal = utils.Round2(principal)
	summary.TotalInterest = utils.Round2(interest)
	summary.TotalInsurance = utils.Round2(insurance)
	summary.TotalFees = utils.Round2(fees)
	return summary
}
