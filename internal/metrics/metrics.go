package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cloud-ru/mcp-credit-go/internal/calculations"
)

var (
	// ToolCalls считает вызовы инструментов по статусу
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_calls_total",
			Help: "Количество вызовов инструментов кредитного калькулятора",
		},
		[]string{"tool_name", "status"},
	)

	// CalculationErrors считает ошибки по типу: validation, calculation, cache
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_errors_total",
			Help: "Количество ошибок расчетов",
		},
		[]string{"tool_name", "error_type"},
	)

	IRRIterations = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "irr_iterations",
			Help:    "Число итераций метода Ньютона при поиске TIR",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 50, 100, 250},
		},
		[]string{"method"},
	)

	IRRNonConverged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irr_non_converged_total",
			Help: "Количество расчетов TIR, не сошедшихся за лимит итераций",
		},
		[]string{"method"},
	)

	// ScheduleCache считает обращения к кэшу симуляций: hit, miss, error
	ScheduleCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_cache_total",
			Help: "Обращения к кэшу результатов симуляции",
		},
		[]string{"result"},
	)
)

// ObserveIRR фиксирует число итераций и факт несходимости
func ObserveIRR(method string, result calculations.IRRResult) {
	IRRIterations.WithLabelValues(method).Observe(float64(result.Iterations))
	if !result.Converged {
		IRRNonConverged.WithLabelValues(method).Inc()
	}
}
