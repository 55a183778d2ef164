package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-credit-go/internal/cache"
	"github.com/cloud-ru/mcp-credit-go/internal/config"
	"github.com/cloud-ru/mcp-credit-go/internal/logging"
	"github.com/cloud-ru/mcp-credit-go/internal/tools"
	"github.com/cloud-ru/mcp-credit-go/internal/tracing"
)

const shutdownTimeout = 5 * time.Second

func main() {
	toolName := flag.String("tool", "", "имя инструмента")
	paramsPath := flag.String("params", "", "JSON-файл с параметрами (по умолчанию stdin)")
	flag.Parse()

	if err := run(context.Background(), *toolName, *paramsPath, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "creditcalc: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, toolName, paramsPath string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tracer, shutdown, err := tracing.InitTracing(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn("tracer shutdown failed", zap.String("op", "main.run"), zap.Error(err))
		}
	}()

	registry := tools.Registry(tools.Deps{
		Config: cfg,
		Tracer: tracer,
		Logger: logger,
		Cache:  cache.New(ctx, cfg, logger),
	})

	handler, ok := registry[toolName]
	if !ok {
		return fmt.Errorf("unknown tool %q, available: %s", toolName, strings.Join(tools.Names(registry), ", "))
	}

	params, err := readParams(paramsPath, stdin)
	if err != nil {
		return err
	}

	logger.Debug("running tool", zap.String("op", "main.run"), zap.String("tool", toolName))
	result, err := handler(ctx, params)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// readParams читает параметры из файла или stdin. Числа сохраняются как
// json.Number, чтобы десятичные значения не проходили через float64.
func readParams(path string, stdin io.Reader) (map[string]interface{}, error) {
	src := stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open params: %w", err)
		}
		defer f.Close()
		src = f
	}

	dec := json.NewDecoder(src)
	dec.UseNumber()

	params := map[string]interface{}{}
	if err := dec.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode params: %w", err)
	}
	return params, nil
}
