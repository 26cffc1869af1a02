// Package server provides the ruler HTTP server.
//
// This package ties together the handlers and middleware and provides
// server lifecycle management including start, graceful shutdown, and OS
// signal handling (SIGTERM, SIGINT).
//
// # Endpoints
//
//   - GET /health                          service and rulebook state
//   - GET /rules                           clause listing
//   - GET /rules/{clause_id}               clause detail
//   - GET /rules/{clause_id}/demo_options  demo input options
//   - POST /rules/evaluate                 claim validation
//   - GET /metrics                         Prometheus exposition (optional)
//
// # Basic Usage
//
//	srv := server.NewServer(server.Options{
//	    Config:    &cfg.Server,
//	    Metrics:   &cfg.Telemetry.Metrics,
//	    Validator: validator,
//	    Rulebook:  rulebookManager,
//	    Collector: collector,
//	    Logger:    logger,
//	})
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package server
