package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultProcessed = "processed"
	ResultFailed    = "failed"
)

// PayrollMetrics captures payroll engine health signals. A nil
// *PayrollMetrics is valid and records nothing.
type PayrollMetrics struct {
	batches         *prometheus.CounterVec
	employeeResults *prometheus.CounterVec
	batchDuration   prometheus.Histogram
	transitions     *prometheus.CounterVec
	formulaFailures prometheus.Counter
}

// NewPayrollMetrics registers the payroll collectors on registerer, falling
// back to the default registerer when nil.
func NewPayrollMetrics(registerer prometheus.Registerer) *PayrollMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &PayrollMetrics{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payroll",
			Name:      "batches_total",
			Help:      "Payroll batches processed, by outcome.",
		}, []string{"outcome"}),
		employeeResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payroll",
			Name:      "employee_results_total",
			Help:      "Per-employee payroll results, by result and error code.",
		}, []string{"result", "code"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "payroll",
			Name:      "batch_duration_seconds",
			Help:      "Wall time of a payroll batch.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payroll",
			Name:      "status_transitions_total",
			Help:      "Payroll run status transitions, by target status.",
		}, []string{"status"}),
		formulaFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "payroll",
			Name:      "formula_failures_total",
			Help:      "Salary component formulas that failed to evaluate and were treated as zero.",
		}),
	}

	registerer.MustRegister(m.batches, m.employeeResults, m.batchDuration, m.transitions, m.formulaFailures)
	return m
}

// ObserveBatch records the outcome of one processPayroll call.
func (m *PayrollMetrics) ObserveBatch(duration time.Duration, failed bool) {
	if m == nil {
		return
	}
	outcome := "completed"
	if failed {
		outcome = "failed"
	}
	m.batches.WithLabelValues(outcome).Inc()
	m.batchDuration.Observe(duration.Seconds())
}

// EmployeeResult records one employee's outcome inside a batch.
func (m *PayrollMetrics) EmployeeResult(result, code string) {
	if m == nil {
		return
	}
	m.employeeResults.WithLabelValues(result, code).Inc()
}

// Transition records a lock or reject.
func (m *PayrollMetrics) Transition(status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status).Inc()
}

// FormulaFailure records a formula that evaluated to zero because it failed.
func (m *PayrollMetrics) FormulaFailure() {
	if m == nil {
		return
	}
	m.formulaFailures.Inc()
}
