package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// HTTPMetrics receives request measurements.
type HTTPMetrics interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RequestStarted()
	RequestFinished()
}

const unmatchedRoute = "unmatched"

// Metrics returns a middleware that records HTTP metrics labelled by the chi
// route pattern, which keeps IDs out of the label set.
func Metrics(recorder HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			recorder.RequestStarted()
			defer recorder.RequestFinished()

			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			recorder.RecordHTTPRequest(r.Method, routePattern(r), wrapped.statusCode, time.Since(start))
		})
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
