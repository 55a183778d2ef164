package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-credit-go/internal/cache"
	"github.com/cloud-ru/mcp-credit-go/internal/config"
	"github.com/cloud-ru/mcp-credit-go/internal/metrics"
)

// ErrInvalidParams оборачивает ошибки разбора и валидации параметров
var ErrInvalidParams = errors.New("неверные параметры")

// ToolHandler представляет обработчик инструмента MCP
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// Deps содержит зависимости обработчиков
type Deps struct {
	Config *config.Config
	Tracer trace.Tracer
	Logger *zap.Logger
	Cache  cache.Cache
}

// Registry возвращает все инструменты по имени
func Registry(deps Deps) map[string]ToolHandler {
	return map[string]ToolHandler{
		"monthly_effective_rate": MonthlyEffectiveRateHandler(deps),
		"convert_to_monthly":     ConvertToMonthlyHandler(deps),
		"monthly_payment":        MonthlyPaymentHandler(deps),
		"amortization_schedule":  AmortizationScheduleHandler(deps),
		"npv_fixed":              NPVFixedHandler(deps),
		"irr_fixed":              IRRFixedHandler(deps),
		"npv_schedule":           NPVScheduleHandler(deps),
		"irr_schedule":           IRRScheduleHandler(deps),
		"loan_simulation":        LoanSimulationHandler(deps),
	}
}

// Names возвращает отсортированные имена инструментов
func Names(registry map[string]ToolHandler) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// call хранит состояние одного вызова инструмента: спан, метрики, лог
type call struct {
	tool   string
	span   trace.Span
	logger *zap.Logger
}

func (d Deps) begin(ctx context.Context, tool string) (context.Context, *call) {
	ctx, span := d.Tracer.Start(ctx, tool)
	return ctx, &call{
		tool:   tool,
		span:   span,
		logger: d.Logger.With(zap.String("op", "tools."+tool)),
	}
}

func (c *call) end() {
	c.span.End()
}

func (c *call) invalid(err error) error {
	c.span.SetAttributes(attribute.String("error", "validation_error"))
	c.span.SetStatus(codes.Error, err.Error())
	metrics.ToolCalls.WithLabelValues(c.tool, "validation_error").Inc()
	metrics.CalculationErrors.WithLabelValues(c.tool, "validation").Inc()
	c.logger.Info("tool call rejected", zap.Error(err))
	return fmt.Errorf("%w: %w", ErrInvalidParams, err)
}

func (c *call) failed(err error) error {
	c.span.SetAttributes(attribute.String("error", "calculation_error"))
	c.span.RecordError(err)
	c.span.SetStatus(codes.Error, err.Error())
	metrics.ToolCalls.WithLabelValues(c.tool, "error").Inc()
	metrics.CalculationErrors.WithLabelValues(c.tool, "calculation").Inc()
	c.logger.Warn("calculation failed", zap.Error(err))
	return fmt.Errorf("ошибка при выполнении расчета: %w", err)
}

func (c *call) succeeded(attrs ...attribute.KeyValue) {
	c.span.SetAttributes(append(attrs, attribute.Bool("success", true))...)
	metrics.ToolCalls.WithLabelValues(c.tool, "success").Inc()
	c.logger.Debug("tool call succeeded")
}

// checks выполняет проверки по порядку и возвращает первую ошибку
func checks(fns ...func() error) error {
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
