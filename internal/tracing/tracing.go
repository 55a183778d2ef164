package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-credit-go/internal/config"
)

const serviceVersion = "1.0.0"

// ShutdownFunc сбрасывает накопленные спаны и останавливает провайдер
type ShutdownFunc func(ctx context.Context) error

// InitTracing настраивает глобальный TracerProvider. При заданном
// OTEL_ENDPOINT спаны уходят по OTLP/HTTP, иначе отбрасываются.
func InitTracing(ctx context.Context, cfg *config.Config, logger *zap.Logger) (trace.Tracer, ShutdownFunc, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.OTELServiceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdktrace.SpanExporter
	if cfg.OTELEndpoint != "" {
		exporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.OTELEndpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		logger.Info("tracing exports spans over OTLP/HTTP",
			zap.String("op", "tracing.InitTracing"),
			zap.String("endpoint", cfg.OTELEndpoint),
		)
	} else {
		exporter = discardExporter{}
		logger.Debug("OTEL_ENDPOINT is not set, spans are discarded",
			zap.String("op", "tracing.InitTracing"),
		)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Tracer(cfg.OTELServiceName), tp.Shutdown, nil
}

type discardExporter struct{}

func (discardExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }

func (discardExporter) Shutdown(context.Context) error { return nil }
