// Package logging provides structured logging built on log/slog.
//
// New constructs a *slog.Logger from a small Config (level, format,
// source annotation, writer). Context helpers carry request and clause
// identifiers through the validation path so handlers and the engine log
// with consistent correlation fields:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//
//	ctx = logging.WithRequestID(ctx, requestID)
//	logging.FromContext(ctx, logger).Info("Validation complete", "status", status)
package logging
