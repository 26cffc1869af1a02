package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// ClauseIDKey is the context key for clause IDs.
	ClauseIDKey contextKey = "clause_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithClauseID adds a clause ID to the context.
func WithClauseID(ctx context.Context, clauseID string) context.Context {
	return context.WithValue(ctx, ClauseIDKey, clauseID)
}

// GetClauseID retrieves the clause ID from the context.
func GetClauseID(ctx context.Context) string {
	if clauseID, ok := ctx.Value(ClauseIDKey).(string); ok {
		return clauseID
	}
	return ""
}

// FromContext returns the logger enriched with any request-scoped fields
// present on the context.
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if requestID := GetRequestID(ctx); requestID != "" {
		logger = logger.With("request_id", requestID)
	}
	if clauseID := GetClauseID(ctx); clauseID != "" {
		logger = logger.With("clause_id", clauseID)
	}
	return logger
}
