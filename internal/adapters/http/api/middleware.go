// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/hireflow/pkg/metrics"
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		status := strconv.Itoa(wrapped.statusCode)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)
		if wrapped.statusCode >= http.StatusBadRequest {
			metrics.RecordErrorByComponent("http", endpoint)
		}
	}
}

// RateLimitMiddleware applies the per-identity request budget. The
// identity is the authenticated caller when the upstream proxy
// forwards one, else the remote address. The limiter lives in the
// shared cache backend and fails open when it is unavailable.
func RateLimitMiddleware(deps Dependencies, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rl := deps.RateLimit(r.Context(), clientIdentity(r))
		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(deps.RateLimitMax(), 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(rl.Remaining, 10))
		if rl.Count > deps.RateLimitMax() {
			writeError(w, http.StatusTooManyRequests, "rate_limited", ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func clientIdentity(r *http.Request) string {
	if id := r.Header.Get("x-user-id"); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
