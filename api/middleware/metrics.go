package middleware

import (
	"net/http"
	"time"

	"github.com/ardiansetya/kasirpoint-backend/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics observes every request's route, status, and latency.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			var route string
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			if route == "" {
				route = r.URL.Path
			}
			m.Observe(r.Method, route, rec.status, time.Since(start))
		})
	}
}
