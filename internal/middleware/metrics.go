package middleware

import (
	"net/http"
	"strconv"
	"time"

	"blogsmith/internal/metrics"
)

// statusRecorder captures the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Metrics records request latency by route pattern and status, including
// requests Auth rejects. The pattern comes from Route or a directly wrapped ServeMux.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		r, info := withRequestInfo(r)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.HTTPRequestDuration.
			WithLabelValues(info.label(r), strconv.Itoa(rec.status)).
			Observe(time.Since(started).Seconds())
	})
}
