package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMonthlyPayment(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OTEL_ENDPOINT", "")

	var out bytes.Buffer
	in := strings.NewReader(`{"principal": 100000, "monthly_rate": 0.01, "months": 12}`)
	require.NoError(t, run(context.Background(), "monthly_payment", "", in, &out))

	var got map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "8884.88", got["monthly_payment"])
}

func TestRunReadsParamsFile(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OTEL_ENDPOINT", "")

	path := filepath.Join(t.TempDir(), "params.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cash_flows": [-100, 0, 121], "discount_rate": "0.1"}`), 0o600))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), "npv_schedule", path, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), `"npv": "0"`)
}

func TestRunErrors(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OTEL_ENDPOINT", "")

	err := run(context.Background(), "no_such_tool", "", strings.NewReader("{}"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loan_simulation")

	err = run(context.Background(), "monthly_payment", "", strings.NewReader("{not json"), &bytes.Buffer{})
	assert.ErrorContains(t, err, "decode params")

	err = run(context.Background(), "monthly_payment", "", strings.NewReader("{}"), &bytes.Buffer{})
	assert.ErrorContains(t, err, "principal")

	err = run(context.Background(), "monthly_payment", filepath.Join(t.TempDir(), "missing.json"), nil, &bytes.Buffer{})
	assert.ErrorContains(t, err, "open params")
}
