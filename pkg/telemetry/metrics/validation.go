package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics tracks metrics related to clause validation.
//
// Metrics:
//   - ruler_validations_total: Total validations by clause and status
//   - ruler_validation_duration_seconds: Validation duration by clause
//   - ruler_violations_total: Violations emitted by clause and reason code
//   - ruler_rulebook_reloads_total: Rulebook reload attempts by outcome
type ValidationMetrics struct {
	validationsTotal   *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	violationsTotal    *prometheus.CounterVec
	reloadsTotal       *prometheus.CounterVec
}

// NewValidationMetrics creates and registers validation metrics with the
// provided registry.
func NewValidationMetrics(namespace string, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of clause validations",
			},
			[]string{"clause_id", "status"},
		),

		validationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of clause validation in seconds",
				// Evaluations are in-memory tree walks, expect <10ms.
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
			[]string{"clause_id"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "violations_total",
				Help:      "Total number of violations emitted",
			},
			[]string{"clause_id", "reason_code"},
		),

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rulebook_reloads_total",
				Help:      "Total number of rulebook reload attempts",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		vm.validationsTotal,
		vm.validationDuration,
		vm.violationsTotal,
		vm.reloadsTotal,
	)

	return vm
}

// RecordValidation records a completed validation.
func (vm *ValidationMetrics) RecordValidation(clauseID, status string, duration time.Duration) {
	vm.validationsTotal.WithLabelValues(clauseID, status).Inc()
	vm.validationDuration.WithLabelValues(clauseID).Observe(duration.Seconds())
}

// RecordViolation records a single emitted violation.
func (vm *ValidationMetrics) RecordViolation(clauseID, reasonCode string) {
	vm.violationsTotal.WithLabelValues(clauseID, reasonCode).Inc()
}

// RecordReload records a rulebook reload attempt.
// Outcome is "success" or "failure".
func (vm *ValidationMetrics) RecordReload(outcome string) {
	vm.reloadsTotal.WithLabelValues(outcome).Inc()
}
