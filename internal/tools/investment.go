package tools

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-credit-go/internal/calculations"
	"github.com/cloud-ru/mcp-credit-go/internal/metrics"
	"github.com/cloud-ru/mcp-credit-go/internal/validators"
)

const maxSolverIterations = 10000

// NPVResult чистая приведенная стоимость (VAN)
type NPVResult struct {
	NPV decimal.Decimal `json:"npv"`
}

// NPVFixedHandler рассчитывает VAN аннуитета
func NPVFixedHandler(deps Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		_, c := deps.begin(ctx, "npv_fixed")
		defer c.end()

		payment, err := decimalParam(params, "payment")
		if err != nil {
			return nil, c.invalid(err)
		}
		rate, err := decimalParam(params, "discount_rate")
		if err != nil {
			return nil, c.invalid(err)
		}
		months, err := intParam(params, "months")
		if err != nil {
			return nil, c.invalid(err)
		}
		initial, err := optionalDecimal(params, "initial_investment", decimal.Zero)
		if err != nil {
			return nil, c.invalid(err)
		}

		c.span.SetAttributes(
			attribute.String("payment", payment.String()),
			attribute.String("discount_rate", rate.String()),
			attribute.Int("months", months),
		)

		if err := checks(
			func() error { return validators.CheckMonthlyRate(deps.Config, "discount_rate", rate) },
			func() error { return validators.CheckMonths(deps.Config, months) },
		); err != nil {
			return nil, c.invalid(err)
		}

		npv, err := calculations.NPVFixed(payment, rate, months, initial)
		if err != nil {
			return nil, c.failed(err)
		}

		c.succeeded(attribute.String("npv", npv.String()))
		return NPVResult{NPV: npv}, nil
	}
}

// IRRFixedHandler ищет месячную TIR аннуитета
func IRRFixedHandler(deps Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		_, c := deps.begin(ctx, "irr_fixed")
		defer c.end()

		payment, err := decimalParam(params, "payment")
		if err != nil {
			return nil, c.invalid(err)
		}
		principal, err := decimalParam(params, "principal")
		if err != nil {
			return nil, c.invalid(err)
		}
		months, err := intParam(params, "months")
		if err != nil {
			return nil, c.invalid(err)
		}
		settings, err := solverParams(params, deps.Config.SolverSettings())
		if err != nil {
			return nil, c.invalid(err)
		}

		c.span.SetAttributes(
			attribute.String("payment", payment.String()),
			attribute.String("principal", principal.String()),
			attribute.Int("months", months),
		)

		if err := checks(
			func() error { return validators.CheckPrincipal(deps.Config, principal) },
			func() error { return validators.CheckNonNegativeAmount(deps.Config, "payment", payment) },
			func() error { return validators.CheckMonths(deps.Config, months) },
			func() error { return checkSolver(settings) },
		); err != nil {
			return nil, c.invalid(err)
		}

		result, err := calculations.IRRFixed(payment, principal, months, settings)
		if err != nil {
			return nil, c.failed(err)
		}

		reportIRR(c, "fixed", result)
		c.succeeded(irrAttributes(result)...)
		return result, nil
	}
}

// NPVScheduleHandler рассчитывает VAN произвольного потока
func NPVScheduleHandler(deps Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		_, c := deps.begin(ctx, "npv_schedule")
		defer c.end()

		flows, err := decimalSliceParam(params, "cash_flows")
		if err != nil {
			return nil, c.invalid(err)
		}
		rate, err := decimalParam(params, "discount_rate")
		if err != nil {
			return nil, c.invalid(err)
		}

		c.span.SetAttributes(
			attribute.Int("periods", len(flows)),
			attribute.String("discount_rate", rate.String()),
		)

		if err := checks(
			func() error { return validators.CheckCashFlows(deps.Config, flows) },
			func() error { return validators.CheckMonthlyRate(deps.Config, "discount_rate", rate) },
		); err != nil {
			return nil, c.invalid(err)
		}

		npv, err := calculations.NPVSchedule(flows, rate)
		if err != nil {
			return nil, c.failed(err)
		}

		c.succeeded(attribute.String("npv", npv.String()))
		return NPVResult{NPV: npv}, nil
	}
}

// IRRScheduleHandler ищет месячную TIR произвольного потока
func IRRScheduleHandler(deps Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		_, c := deps.begin(ctx, "irr_schedule")
		defer c.end()

		flows, err := decimalSliceParam(params, "cash_flows")
		if err != nil {
			return nil, c.invalid(err)
		}
		settings, err := solverParams(params, deps.Config.SolverSettings())
		if err != nil {
			return nil, c.invalid(err)
		}

		c.span.SetAttributes(attribute.Int("periods", len(flows)))

		if err := checks(
			func() error { return validators.CheckCashFlows(deps.Config, flows) },
			func() error { return checkSolver(settings) },
		); err != nil {
			return nil, c.invalid(err)
		}

		result, err := calculations.IRRScheduleWith(flows, settings)
		if err != nil {
			return nil, c.failed(err)
		}

		reportIRR(c, "schedule", result)
		c.succeeded(irrAttributes(result)...)
		return result, nil
	}
}

func checkSolver(s calculations.SolverSettings) error {
	if err := validators.ValidateIntRange("max_iterations", s.MaxIterations, 1, maxSolverIterations); err != nil {
		return err
	}
	return validators.ValidatePositiveNumber("tolerance", s.Tolerance, 1e-15, 1)
}

// reportIRR пишет метрики итераций; несходимость логируется как WARN
func reportIRR(c *call, method string, result calculations.IRRResult) {
	metrics.ObserveIRR(method, result)
	if !result.Converged {
		c.logger.Warn("IRR did not converge",
			zap.Int("iterations", result.Iterations),
			zap.String("last_estimate", result.Percent.String()),
		)
	}
}

func irrAttributes(result calculations.IRRResult) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("irr_percent", result.Percent.String()),
		attribute.Int("iterations", result.Iterations),
		attribute.Bool("converged", result.Converged),
	}
}
