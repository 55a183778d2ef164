package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-credit-go/internal/calculations"
)

// Config содержит конфигурацию кредитного калькулятора
type Config struct {
	MaxPrincipal         float64
	MaxMonths            int
	MaxRate              float64
	MaxGraceMonths       int
	PhysicalStatementFee float64
	IRRMaxIterations     int
	IRRTolerance         float64
	OTELEndpoint         string
	OTELServiceName      string
	LogLevel             string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	CacheTTL             time.Duration
}

// LoadConfig загружает конфигурацию из .env (если есть) и переменных окружения
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		MaxPrincipal:         getEnvFloat("MAX_PRINCIPAL", 1e9),
		MaxMonths:            getEnvInt("MAX_MONTHS", 600),
		MaxRate:              getEnvFloat("MAX_RATE", 1000),
		MaxGraceMonths:       getEnvInt("MAX_GRACE_MONTHS", 36),
		PhysicalStatementFee: getEnvFloat("PHYSICAL_STATEMENT_FEE", 10),
		IRRMaxIterations:     getEnvInt("IRR_MAX_ITERATIONS", calculations.DefaultSolverSettings.MaxIterations),
		IRRTolerance:         getEnvFloat("IRR_TOLERANCE", calculations.DefaultSolverSettings.Tolerance),
		OTELEndpoint:         getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:      getEnvString("OTEL_SERVICE_NAME", "mcp-credit-server"),
		LogLevel:             getEnvString("LOG_LEVEL", "INFO"),
		RedisAddr:            getEnvString("REDIS_ADDR", ""),
		RedisPassword:        getEnvString("REDIS_PASSWORD", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		CacheTTL:             time.Duration(getEnvInt("CACHE_TTL_SECONDS", 600)) * time.Second,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxPrincipal <= 0 {
		return fmt.Errorf("MAX_PRINCIPAL must be positive, got %g", c.MaxPrincipal)
	}
	if c.MaxMonths <= 0 {
		return fmt.Errorf("MAX_MONTHS must be positive, got %d", c.MaxMonths)
	}
	if c.MaxRate <= 0 {
		return fmt.Errorf("MAX_RATE must be positive, got %g", c.MaxRate)
	}
	if c.MaxGraceMonths < 0 {
		return fmt.Errorf("MAX_GRACE_MONTHS must not be negative, got %d", c.MaxGraceMonths)
	}
	if c.PhysicalStatementFee < 0 {
		return fmt.Errorf("PHYSICAL_STATEMENT_FEE must not be negative, got %g", c.PhysicalStatementFee)
	}
	if c.IRRMaxIterations <= 0 {
		return fmt.Errorf("IRR_MAX_ITERATIONS must be positive, got %d", c.IRRMaxIterations)
	}
	if !(c.IRRTolerance > 0) {
		return fmt.Errorf("IRR_TOLERANCE must be positive, got %g", c.IRRTolerance)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must not be negative")
	}
	return nil
}

// DeliveryFee возвращает плату за физическую доставку выписки
func (c *Config) DeliveryFee() decimal.Decimal {
	return decimal.NewFromFloat(c.PhysicalStatementFee)
}

// SolverSettings возвращает параметры метода Ньютона для расчета TIR
func (c *Config) SolverSettings() calculations.SolverSettings {
	return calculations.SolverSettings{
		MaxIterations: c.IRRMaxIterations,
		Tolerance:     c.IRRTolerance,
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
