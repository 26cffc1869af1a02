package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus registry and the metric subsystems.
// It provides a single wiring point for the server and CLI.
type Collector struct {
	namespace string
	registry  *prometheus.Registry

	validationMetrics *ValidationMetrics
	requestMetrics    *RequestMetrics
}

// NewCollector creates a new metrics collector. If registry is nil, a fresh
// registry is created; the default global registry is never used so tests
// can build collectors without registration conflicts.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "ruler"
	}

	c := &Collector{
		namespace: namespace,
		registry:  registry,
	}

	c.validationMetrics = NewValidationMetrics(namespace, registry)
	c.requestMetrics = NewRequestMetrics(namespace, registry)

	return c
}

// Validation returns the validation metric subsystem.
func (c *Collector) Validation() *ValidationMetrics {
	return c.validationMetrics
}

// Request returns the HTTP request metric subsystem.
func (c *Collector) Request() *RequestMetrics {
	return c.requestMetrics
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
