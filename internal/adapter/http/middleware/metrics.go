package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/roamstay/walletledger/internal/infrastructure/metrics"
)

// MetricsMiddleware records HTTP metrics.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics recording.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses IDs out of URL paths to keep label
// cardinality bounded.
// /api/v1/accounts/01ABC123/transactions -> /api/v1/accounts/:id/transactions
func normalizePath(path string) string {
	const (
		accountsPrefix = "/api/v1/accounts/"
		bookingsPrefix = "/api/v1/bookings/"
	)

	switch {
	case strings.HasPrefix(path, accountsPrefix) && len(path) > len(accountsPrefix):
		rest := path[len(accountsPrefix):]
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			return accountsPrefix + ":id" + rest[idx:]
		}
		return accountsPrefix + ":id"

	case strings.HasPrefix(path, bookingsPrefix) && len(path) > len(bookingsPrefix):
		rest := path[len(bookingsPrefix):]
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			return bookingsPrefix + ":id" + rest[idx:]
		}
		return bookingsPrefix + ":id"
	}

	return path
}
