package middleware

import (
	"net/http"
	"strconv"
	"time"

	"ruler-hq/ruler/pkg/telemetry/metrics"
)

// Metrics records request counts and latencies per path and status code.
// A nil collector disables recording.
func Metrics(rm *metrics.RequestMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rm == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			rm.RecordRequest(r.URL.Path, r.Method,
				strconv.Itoa(rw.statusCode), time.Since(startTime))
		})
	}
}
