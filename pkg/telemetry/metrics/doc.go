// Package metrics provides Prometheus instrumentation for the validation
// service.
//
// The Collector owns a private registry and two metric subsystems:
//
//   - ValidationMetrics: validation counts and durations per clause,
//     violation counts per reason code, and rulebook reload outcomes.
//   - RequestMetrics: HTTP request counts and latencies per path.
//
// # Basic Usage
//
//	collector := metrics.NewCollector("ruler", nil)
//
//	start := time.Now()
//	result := validator.Validate(ctx, clauseID, inputs)
//	collector.Validation().RecordValidation(clauseID, result.Status, time.Since(start))
//
//	http.Handle("/metrics", collector.Handler())
package metrics
