package tools

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-credit-go/internal/cache"
	"github.com/cloud-ru/mcp-credit-go/internal/calculations"
	"github.com/cloud-ru/mcp-credit-go/internal/metrics"
	"github.com/cloud-ru/mcp-credit-go/internal/validators"
)

const simulationKeyPrefix = "sim"

// PaymentResult фиксированный ежемесячный платеж
type PaymentResult struct {
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
}

// ScheduleResult график платежей с итогами
type ScheduleResult struct {
	MonthlyPayment decimal.Decimal                  `json:"monthly_payment"`
	Summary        calculations.ScheduleSummary     `json:"summary"`
	Schedule       []calculations.AmortizationEntry `json:"schedule"`
}

// MonthlyPaymentHandler рассчитывает аннуитетный платеж по месячной ставке
func MonthlyPaymentHandler(deps Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		_, c := deps.begin(ctx, "monthly_payment")
		defer c.end()

		principal, err := decimalParam(params, "principal")
		if err != nil {
			return nil, c.invalid(err)
		}
		rate, err := decimalParam(params, "monthly_rate")
		if err != nil {
			return nil, c.invalid(err)
		}
		months, err := intParam(params, "months")
		if err != nil {
			return nil, c.invalid(err)
		}

		c.span.SetAttributes(
			attribute.String("principal", principal.String()),
			attribute.String("monthly_rate", rate.String()),
			attribute.Int("months", months),
		)

		if err := checks(
			func() error { return validators.CheckPrincipal(deps.Config, principal) },
			func() error { return validators.CheckMonthlyRate(deps.Config, "monthly_rate", rate) },
			func() error { return validators.CheckMonths(deps.Config, months) },
		); err != nil {
			return nil, c.invalid(err)
		}

		payment, err := calculations.MonthlyPayment(principal, rate, months)
		if err != nil {
			return nil, c.failed(err)
		}

		c.succeeded(attribute.String("monthly_payment", payment.String()))
		return PaymentResult{MonthlyPayment: payment}, nil
	}
}

// AmortizationScheduleHandler строит график платежей. Если payment не
// передан, он рассчитывается по формуле аннуитета.
func AmortizationScheduleHandler(deps Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		_, c := deps.begin(ctx, "amortization_schedule")
		defer c.end()

		principal, err := decimalParam(params, "principal")
		if err != nil {
			return nil, c.invalid(err)
		}
		rate, err := decimalParam(params, "monthly_rate")
		if err != nil {
			return nil, c.invalid(err)
		}
		months, err := intParam(params, "months")
		if err != nil {
			return nil, c.invalid(err)
		}
		grace, err := graceParams(params)
		if err != nil {
			return nil, c.invalid(err)
		}
		costs, err := costsParams(deps, params)
		if err != nil {
			return nil, c.invalid(err)
		}

		c.span.SetAttributes(
			attribute.String("principal", principal.String()),
			attribute.String("monthly_rate", rate.String()),
			attribute.Int("months", months),
			attribute.Int("grace_months", grace.Months),
			attribute.String("grace_type", grace.Type.String()),
		)

		if err := checks(
			func() error { return validators.CheckPrincipal(deps.Config, principal) },
			func() error { return validators.CheckMonthlyRate(deps.Config, "monthly_rate", rate) },
			func() error { return validators.CheckMonths(deps.Config, months) },
			func() error { return validators.CheckGrace(deps.Config, grace.Months, months) },
		); err != nil {
			return nil, c.invalid(err)
		}

		payment, err := optionalDecimal(params, "payment", decimal.Zero)
		if err != nil {
			return nil, c.invalid(err)
		}
		if payment.IsZero() {
			payment, err = calculations.MonthlyPayment(principal, rate, months)
			if err != nil {
				return nil, c.failed(err)
			}
		} else if err := validators.CheckNonNegativeAmount(deps.Config, "payment", payment); err != nil {
			return nil, c.invalid(err)
		}

		schedule, err := calculations.GenerateSchedule(calculations.ScheduleInput{
			Principal:      principal,
			MonthlyRate:    rate,
			InitialPayment: payment,
			TermMonths:     months,
			Grace:          grace,
			Costs:          costs,
		})
		if err != nil {
			return nil, c.failed(err)
		}

		summary := calculations.Summarize(schedule)
		c.succeeded(
			attribute.String("monthly_payment", payment.String()),
			attribute.String("total_paid", summary.TotalPaid.String()),
		)
		return ScheduleResult{MonthlyPayment: payment, Summary: summary, Schedule: schedule}, nil
	}
}

// LoanSimulationHandler выполняет полный расчет кредита: TEM, платеж,
// график, VAN по ставке COK и TIR. Результаты кэшируются по входным данным.
func LoanSimulationHandler(deps Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := deps.begin(ctx, "loan_simulation")
		defer c.end()

		in, err := simulationParams(deps, params)
		if err != nil {
			return nil, c.invalid(err)
		}

		c.span.SetAttributes(
			attribute.String("principal", in.Principal.String()),
			attribute.String("annual_rate", in.AnnualRate.String()),
			attribute.String("rate_kind", in.RateKind.String()),
			attribute.Int("months", in.TermMonths),
			attribute.Int("grace_months", in.Grace.Months),
		)

		cfg := deps.Config
		if err := checks(
			func() error { return validators.CheckPrincipal(cfg, in.Principal) },
			func() error { return validators.CheckRate(cfg, "annual_rate", in.AnnualRate) },
			func() error { return validators.CheckMonths(cfg, in.TermMonths) },
			func() error { return validators.CheckGrace(cfg, in.Grace.Months, in.TermMonths) },
			func() error { return validators.CheckRate(cfg, "opportunity_rate", in.Opportunity.Rate) },
		); err != nil {
			return nil, c.invalid(err)
		}

		key, err := cache.Key(simulationKeyPrefix, in)
		if err != nil {
			return nil, c.failed(err)
		}
		if cached, ok := lookupSimulation(ctx, deps, c, key); ok {
			c.succeeded(attribute.Bool("cache_hit", true))
			return cached, nil
		}

		result, err := calculations.Simulate(in)
		if err != nil {
			return nil, c.failed(err)
		}

		reportIRR(c, "schedule", result.IRR)
		storeSimulation(ctx, deps, c, key, result)

		c.succeeded(append(irrAttributes(result.IRR),
			attribute.Bool("cache_hit", false),
			attribute.String("npv", result.NPV.String()),
		)...)
		return result, nil
	}
}

func lookupSimulation(ctx context.Context, deps Deps, c *call, key string) (*calculations.SimulationResult, bool) {
	raw, ok, err := deps.Cache.Get(ctx, key)
	if err != nil {
		metrics.ScheduleCache.WithLabelValues("error").Inc()
		c.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		metrics.ScheduleCache.WithLabelValues("miss").Inc()
		return nil, false
	}

	var result calculations.SimulationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		metrics.ScheduleCache.WithLabelValues("error").Inc()
		c.logger.Warn("cached simulation is corrupted", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	metrics.ScheduleCache.WithLabelValues("hit").Inc()
	return &result, true
}

func storeSimulation(ctx context.Context, deps Deps, c *call, key string, result *calculations.SimulationResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("failed to encode simulation for cache", zap.Error(err))
		return
	}
	if err := deps.Cache.Set(ctx, key, string(raw), deps.Config.CacheTTL); err != nil {
		metrics.ScheduleCache.WithLabelValues("error").Inc()
		c.logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}
}

func graceParams(params map[string]interface{}) (calculations.Grace, error) {
	months, err := optionalInt(params, "grace_months", 0)
	if err != nil {
		return calculations.Grace{}, err
	}
	s, err := optionalString(params, "grace_type", "")
	if err != nil {
		return calculations.Grace{}, err
	}
	graceType, err := calculations.ParseGraceType(s)
	if err != nil {
		return calculations.Grace{}, err
	}
	return calculations.Grace{Months: months, Type: graceType}, nil
}

func costsParams(deps Deps, params map[string]interface{}) (calculations.Costs, error) {
	var costs calculations.Costs
	amounts := []struct {
		name string
		dst  *decimal.Decimal
		rate bool
	}{
		{"life_insurance_rate", &costs.LifeInsuranceRate, true},
		{"property_insurance_rate", &costs.PropertyInsuranceRate, true},
		{"property_value", &costs.PropertyValue, false},
		{"commissions", &costs.Commissions, false},
		{"admin_costs", &costs.AdminCosts, false},
	}
	for _, a := range amounts {
		v, err := optionalDecimal(params, a.name, decimal.Zero)
		if err != nil {
			return costs, err
		}
		if a.rate {
			err = validators.CheckInsuranceRate(a.name, v)
		} else {
			err = validators.CheckNonNegativeAmount(deps.Config, a.name, v)
		}
		if err != nil {
			return costs, err
		}
		*a.dst = v
	}

	s, err := optionalString(params, "statement_delivery", "")
	if err != nil {
		return costs, err
	}
	if costs.StatementDelivery, err = calculations.ParseStatementDelivery(s); err != nil {
		return costs, err
	}
	costs.PhysicalDeliveryFee = deps.Config.DeliveryFee()
	return costs, nil
}

func simulationParams(deps Deps, params map[string]interface{}) (calculations.SimulationInput, error) {
	var in calculations.SimulationInput
	var err error

	if in.Principal, err = decimalParam(params, "principal"); err != nil {
		return in, err
	}
	if in.AnnualRate, err = decimalParam(params, "annual_rate"); err != nil {
		return in, err
	}
	if in.RateKind, err = rateKindParam(params, "rate_kind"); err != nil {
		return in, err
	}
	if in.RatePeriod, err = periodParam(params, "period"); err != nil {
		return in, err
	}
	if in.TermMonths, err = intParam(params, "months"); err != nil {
		return in, err
	}
	if in.Grace, err = graceParams(params); err != nil {
		return in, err
	}
	if in.Costs, err = costsParams(deps, params); err != nil {
		return in, err
	}

	if in.Opportunity.Rate, err = decimalParam(params, "opportunity_rate"); err != nil {
		return in, err
	}
	if in.Opportunity.Kind, err = rateKindParam(params, "opportunity_rate_kind"); err != nil {
		return in, err
	}
	if in.Opportunity.Period, err = periodParam(params, "opportunity_period"); err != nil {
		return in, err
	}
	if in.Opportunity.Capitalization, err = periodParam(params, "opportunity_capitalization"); err != nil {
		return in, err
	}

	in.Solver = deps.Config.SolverSettings()
	return in, nil
}
