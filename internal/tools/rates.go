package tools

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cloud-ru/mcp-credit-go/internal/calculations"
	"github.com/cloud-ru/mcp-credit-go/internal/validators"
	"github.com/cloud-ru/mcp-credit-go/pkg/utils"
)

// RateResult месячная эффективная ставка (TEM)
type RateResult struct {
	MonthlyRate        decimal.Decimal `json:"monthly_rate"`
	MonthlyRatePercent decimal.Decimal `json:"monthly_rate_percent"`
}

func newRateResult(rate decimal.Decimal) RateResult {
	return RateResult{
		MonthlyRate:        rate,
		MonthlyRatePercent: utils.ToPercent(rate, 6),
	}
}

// MonthlyEffectiveRateHandler переводит годовую ставку TE/TN в TEM
func MonthlyEffectiveRateHandler(deps Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		_, c := deps.begin(ctx, "monthly_effective_rate")
		defer c.end()

		annualRate, err := decimalParam(params, "annual_rate")
		if err != nil {
			return nil, c.invalid(err)
		}
		kind, err := rateKindParam(params, "rate_kind")
		if err != nil {
			return nil, c.invalid(err)
		}
		period, err := periodParam(params, "period")
		if err != nil {
			return nil, c.invalid(err)
		}

		c.span.SetAttributes(
			attribute.String("annual_rate", annualRate.String()),
			attribute.String("rate_kind", kind.String()),
			attribute.String("period", period.String()),
		)

		if err := validators.CheckRate(deps.Config, "annual_rate", annualRate); err != nil {
			return nil, c.invalid(err)
		}

		rate, err := calculations.MonthlyEffectiveRate(annualRate, kind, period)
		if err != nil {
			return nil, c.failed(err)
		}

		c.succeeded(attribute.String("monthly_rate", rate.String()))
		return newRateResult(rate), nil
	}
}

// ConvertToMonthlyHandler переводит ставку за произвольный период в TEM
func ConvertToMonthlyHandler(deps Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		_, c := deps.begin(ctx, "convert_to_monthly")
		defer c.end()

		rate, err := decimalParam(params, "rate")
		if err != nil {
			return nil, c.invalid(err)
		}
		kind, err := rateKindParam(params, "rate_kind")
		if err != nil {
			return nil, c.invalid(err)
		}
		period, err := periodParam(params, "period")
		if err != nil {
			return nil, c.invalid(err)
		}
		capitalization, err := periodParam(params, "capitalization")
		if err != nil {
			return nil, c.invalid(err)
		}

		c.span.SetAttributes(
			attribute.String("rate", rate.String()),
			attribute.String("rate_kind", kind.String()),
			attribute.String("period", period.String()),
			attribute.String("capitalization", capitalization.String()),
		)

		if err := validators.CheckRate(deps.Config, "rate", rate); err != nil {
			return nil, c.invalid(err)
		}

		monthly, err := calculations.ConvertToMonthly(rate, kind, period, capitalization)
		if err != nil {
			return nil, c.failed(err)
		}

		c.succeeded(attribute.String("monthly_rate", monthly.String()))
		return newRateResult(monthly), nil
	}
}
