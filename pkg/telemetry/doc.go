// Package telemetry groups the observability building blocks used across
// ruler.
//
// # Components
//
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metrics for validations and HTTP requests
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//		return err
//	}
//
//	collector := metrics.NewCollector("ruler", nil)
//	collector.Validation().RecordValidation("TRAVEL_001", "NG", elapsed)
package telemetry
