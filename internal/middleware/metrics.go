package middleware

import (
	"net/http"
	"time"

	"github.com/jonatjano/HostMyDocs/internal/observability"
)

// unmatchedRoute labels requests no route pattern matched
const unmatchedRoute = "unmatched"

// Metrics records request count and latency per route pattern
func Metrics(m *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			// ServeMux sets Pattern on the request it routes
			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			m.ObserveHTTPRequest(r.Method, route, rec.status, time.Since(start))
		})
	}
}
