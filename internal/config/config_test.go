package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"MAX_PRINCIPAL", "MAX_MONTHS", "MAX_RATE", "MAX_GRACE_MONTHS", "PHYSICAL_STATEMENT_FEE",
		"IRR_MAX_ITERATIONS", "IRR_TOLERANCE", "REDIS_ADDR", "CACHE_TTL_SECONDS", "OTEL_SERVICE_NAME",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 1e9, cfg.MaxPrincipal)
	assert.Equal(t, 600, cfg.MaxMonths)
	assert.Equal(t, 1000.0, cfg.MaxRate)
	assert.Equal(t, 36, cfg.MaxGraceMonths)
	assert.Equal(t, "mcp-credit-server", cfg.OTELServiceName)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "10", cfg.DeliveryFee().String())

	settings := cfg.SolverSettings()
	assert.Equal(t, 100, settings.MaxIterations)
	assert.Equal(t, 0.00001, settings.Tolerance)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("MAX_MONTHS", "360")
	t.Setenv("PHYSICAL_STATEMENT_FEE", "12.5")
	t.Setenv("IRR_MAX_ITERATIONS", "250")
	t.Setenv("IRR_TOLERANCE", "1e-8")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL_SECONDS", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 360, cfg.MaxMonths)
	assert.Equal(t, "12.5", cfg.DeliveryFee().String())
	assert.Equal(t, 250, cfg.SolverSettings().MaxIterations)
	assert.Equal(t, 1e-8, cfg.SolverSettings().Tolerance)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
}

func TestLoadConfigIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_MONTHS", "twelve")
	t.Setenv("MAX_RATE", "abc")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.MaxMonths)
	assert.Equal(t, 1000.0, cfg.MaxRate)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero iterations", "IRR_MAX_ITERATIONS", "0"},
		{"negative tolerance", "IRR_TOLERANCE", "-0.1"},
		{"negative fee", "PHYSICAL_STATEMENT_FEE", "-1"},
		{"negative grace limit", "MAX_GRACE_MONTHS", "-2"},
		{"zero principal limit", "MAX_PRINCIPAL", "0"},
		{"negative ttl", "CACHE_TTL_SECONDS", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg, err := LoadConfig()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
