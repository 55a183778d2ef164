package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-credit-go/internal/calculations"
	"github.com/cloud-ru/mcp-credit-go/pkg/utils"
)

// Числа принимаются как JSON-числа (float64 или json.Number)
// либо как десятичные строки: "100000.10".

func toDecimal(name string, v interface{}) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		if !utils.IsFinite(x) {
			return decimal.Zero, fmt.Errorf("invalid parameter: %s", name)
		}
		return decimal.NewFromFloat(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case json.Number:
		return parseDecimalString(name, x.String())
	case string:
		return parseDecimalString(name, x)
	case decimal.Decimal:
		return x, nil
	}
	return decimal.Zero, fmt.Errorf("invalid parameter: %s", name)
}

func parseDecimalString(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid parameter: %s: %q is not a number", name, s)
	}
	return d, nil
}

func decimalParam(params map[string]interface{}, name string) (decimal.Decimal, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return decimal.Zero, fmt.Errorf("invalid parameter: %s", name)
	}
	return toDecimal(name, v)
}

func optionalDecimal(params map[string]interface{}, name string, def decimal.Decimal) (decimal.Decimal, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return def, nil
	}
	return toDecimal(name, v)
}

func intParam(params map[string]interface{}, name string) (int, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("invalid parameter: %s", name)
	}
	d, err := toDecimal(name, v)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) || d.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, fmt.Errorf("invalid parameter: %s must be an integer", name)
	}
	return int(d.IntPart()), nil
}

func optionalInt(params map[string]interface{}, name string, def int) (int, error) {
	if v, ok := params[name]; !ok || v == nil {
		return def, nil
	}
	return intParam(params, name)
}

func optionalFloat(params map[string]interface{}, name string, def float64) (float64, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return def, nil
	}
	d, err := toDecimal(name, v)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

func stringParam(params map[string]interface{}, name string) (string, error) {
	s, ok := params[name].(string)
	if !ok {
		return "", fmt.Errorf("invalid parameter: %s", name)
	}
	return s, nil
}

func optionalString(params map[string]interface{}, name, def string) (string, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("invalid parameter: %s", name)
	}
	return s, nil
}

func decimalSliceParam(params map[string]interface{}, name string) ([]decimal.Decimal, error) {
	var items []interface{}
	switch x := params[name].(type) {
	case []interface{}:
		items = x
	case []float64:
		items = make([]interface{}, len(x))
		for i, f := range x {
			items[i] = f
		}
	case []string:
		items = make([]interface{}, len(x))
		for i, s := range x {
			items[i] = s
		}
	default:
		return nil, fmt.Errorf("invalid parameter: %s", name)
	}

	out := make([]decimal.Decimal, len(items))
	for i, item := range items {
		d, err := toDecimal(fmt.Sprintf("%s[%d]", name, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func rateKindParam(params map[string]interface{}, name string) (calculations.RateKind, error) {
	s, err := stringParam(params, name)
	if err != nil {
		return calculations.RateKindUnknown, err
	}
	return calculations.ParseRateKind(s)
}

func periodParam(params map[string]interface{}, name string) (calculations.Period, error) {
	s, err := optionalString(params, name, "")
	if err != nil {
		return calculations.PeriodUnspecified, err
	}
	return calculations.ParsePeriod(s), nil
}

// solverParams читает необязательные max_iterations и tolerance
func solverParams(params map[string]interface{}, def calculations.SolverSettings) (calculations.SolverSettings, error) {
	maxIter, err := optionalInt(params, "max_iterations", def.MaxIterations)
	if err != nil {
		return def, err
	}
	tol, err := optionalFloat(params, "tolerance", def.Tolerance)
	if err != nil {
		return def, err
	}
	return calculations.SolverSettings{MaxIterations: maxIter, Tolerance: tol}, nil
}
