package calculations

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-credit-go/pkg/utils"
)

const initialGuess = 0.01 // 1% в месяц

// NPVFixed рассчитывает VAN аннуитета:
// initialInvestment + Σ payment/(1+d)^t, t = 1..termMonths
func NPVFixed(payment, discountRate decimal.Decimal, termMonths int, initialInvestment decimal.Decimal) (decimal.Decimal, error) {
	if termMonths < 0 {
		return decimal.Zero, fmt.Errorf("%w: term must not be negative, got %d", ErrInvalidArgument, termMonths)
	}
	onePlus := one.Add(discountRate)
	if !onePlus.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: discount rate must be greater than -1", ErrInvalidArgument)
	}

	npv := initialInvestment
	factor := one
	for t := 1; t <= termMonths; t++ {
		factor = mul(factor, onePlus)
		npv = npv.Add(payment.DivRound(factor, workingScale))
	}
	return utils.Round2(npv), nil
}

// IRRFixed ищет месячную TIR аннуитета методом Ньютона для
// f(r) = −principal + Σ payment/(1+r)^t.
// Если производная становится меньше допуска, возвращается текущее
// приближение с Converged=false; так же и при исчерпании итераций.
// Результат в процентах, 4 знака.
func IRRFixed(payment, principal decimal.Decimal, termMonths int, settings SolverSettings) (IRRResult, error) {
	if termMonths <= 0 {
		return IRRResult{}, fmt.Errorf("%w: term must be positive, got %d", ErrInvalidArgument, termMonths)
	}
	if err := settings.validate(); err != nil {
		return IRRResult{}, err
	}

	tol := decimal.NewFromFloat(settings.Tolerance)
	guess := decimal.NewFromFloat(initialGuess)

	for i := 0; i < settings.MaxIterations; i++ {
		f, fPrime, err := annuityNPVAndDerivative(guess, payment, principal, termMonths)
		if err != nil {
			return IRRResult{}, err
		}
		if fPrime.Abs().LessThan(tol) {
			return fixedResult(guess, i+1, false), nil
		}

		newGuess := guess.Sub(f.DivRound(fPrime, workingScale))
		if newGuess.Sub(guess).Abs().LessThan(tol) {
			return fixedResult(newGuess, i+1, true), nil
		}
		guess = newGuess
	}

	return fixedResult(guess, settings.MaxIterations, false), nil
}

// annuityNPVAndDerivative возвращает f(r) и f'(r) = Σ −t·payment/(1+r)^(t+1)
func annuityNPVAndDerivative(rate, payment, principal decimal.Decimal, termMonths int) (decimal.Decimal, decimal.Decimal, error) {
	onePlus := one.Add(rate)
	if !onePlus.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: rate estimate %s fell to or below -100%%", ErrArithmeticHazard, rate)
	}

	npv := principal.Neg()
	derivative := decimal.Zero
	factor := one
	for t := 1; t <= termMonths; t++ {
		factor = mul(factor, onePlus)
		npv = npv.Add(payment.DivRound(factor, workingScale))
		weighted := payment.Mul(decimal.NewFromInt(int64(-t)))
		derivative = derivative.Add(weighted.DivRound(mul(factor, onePlus), workingScale))
	}
	return npv, derivative, nil
}

func fixedResult(fraction decimal.Decimal, iterations int, converged bool) IRRResult {
	return IRRResult{
		Percent:    utils.ToPercent(fraction, 4),
		Iterations: iterations,
		Converged:  converged,
	}
}

// NPVSchedule рассчитывает VAN произвольного потока:
// Σ cashFlows[i]/(1+d)^i, i = 0..N. Поток с индексом 0 не дисконтируется.
func NPVSchedule(cashFlows []decimal.Decimal, discountRate decimal.Decimal) (decimal.Decimal, error) {
	onePlus := one.Add(discountRate)
	if !onePlus.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: discount rate must be greater than -1", ErrInvalidArgument)
	}

	npv := decimal.Zero
	factor := one
	for i, flow := range cashFlows {
		if i > 0 {
			factor = mul(factor, onePlus)
		}
		npv = npv.Add(flow.DivRound(factor, workingScale))
	}
	return utils.Round2(npv), nil
}

// IRRSchedule рассчитывает месячную TIR произвольного потока
// с параметрами DefaultSolverSettings. Результат в процентах, 6 знаков.
func IRRSchedule(cashFlows []decimal.Decimal) (IRRResult, error) {
	return IRRScheduleWith(cashFlows, DefaultSolverSettings)
}

// IRRScheduleWith работает как IRRSchedule, но с явными параметрами метода Ньютона.
// Нулевая производная возвращает ErrArithmeticHazard.
func IRRScheduleWith(cashFlows []decimal.Decimal, settings SolverSettings) (IRRResult, error) {
	if len(cashFlows) == 0 {
		return IRRResult{}, fmt.Errorf("%w: cash flow schedule is empty", ErrInvalidArgument)
	}
	if err := settings.validate(); err != nil {
		return IRRResult{}, err
	}

	flows := make([]float64, len(cashFlows))
	for i, cf := range cashFlows {
		flows[i] = cf.InexactFloat64()
	}

	tol := settings.Tolerance
	guess := initialGuess

	for i := 0; i < settings.MaxIterations; i++ {
		npv := 0.0
		dNPV := 0.0
		for t, flow := range flows {
			denominator := math.Pow(1.0+guess, float64(t))
			npv += flow / denominator
			dNPV -= float64(t) * flow / (denominator * (1.0 + guess))
		}

		if !utils.IsFinite(npv) || !utils.IsFinite(dNPV) {
			return IRRResult{}, fmt.Errorf("%w: non-finite NPV at rate estimate %g", ErrArithmeticHazard, guess)
		}
		if math.Abs(npv) < tol {
			return scheduleResult(guess, i+1, true), nil
		}
		if dNPV == 0 {
			return IRRResult{}, fmt.Errorf("%w: zero derivative at iteration %d", ErrArithmeticHazard, i+1)
		}

		newGuess := guess - npv/dNPV
		if math.Abs(newGuess-guess) < tol {
			return scheduleResult(newGuess, i+1, true), nil
		}
		guess = newGuess
	}

	return scheduleResult(guess, settings.MaxIterations, false), nil
}

func scheduleResult(fraction float64, iterations int, converged bool) IRRResult {
	return IRRResult{
		Percent:    utils.ToPercent(decimal.NewFromFloat(fraction), 6),
		Iterations: iterations,
		Converged:  converged,
	}
}

func (s SolverSettings) validate() error {
	if s.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidArgument, s.MaxIterations)
	}
	if !(s.Tolerance > 0) || !utils.IsFinite(s.Tolerance) {
		return fmt.Errorf("%w: tolerance must be a positive number", ErrInvalidArgument)
	}
	return nil
}
