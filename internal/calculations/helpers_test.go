package calculations

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cloud-ru/mcp-credit-go/pkg/utils"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertClose(t *testing.T, want, got decimal.Decimal, tolerance string, msgAndArgs ...interface{}) {
	t.Helper()
	if !utils.WithinTolerance(want, got, d(tolerance)) {
		assert.Fail(t, "values differ beyond tolerance",
			"want %s, got %s (tolerance %s) %v", want, got, tolerance, msgAndArgs)
	}
}
