// Package middleware provides the HTTP middleware chain for the ruler
// server: request IDs, structured request logging, panic recovery, and
// request metrics.
package middleware
