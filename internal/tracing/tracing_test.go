package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-credit-go/internal/config"
)

func TestInitTracingWithoutEndpoint(t *testing.T) {
	cfg := &config.Config{OTELServiceName: "credit-test"}

	tracer, shutdown, err := InitTracing(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "monthly_payment")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}
