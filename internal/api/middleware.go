package api

import (
	"net/http"
	"strings"
	"time"

	"prokat/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

func loggingMiddleware(logger *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		l := logger.With().Str("request_id", requestID).Logger()
		r = r.WithContext(l.WithContext(r.Context()))

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		metrics.ObserveHTTP(endpointLabel(r.URL.Path), recorder.status, dur)

		l.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

// endpointLabel ограничивает кардинальность метрик известными путями.
func endpointLabel(path string) string {
	switch path {
	case "/api/v1/inventory", "/api/v1/inventory/status", "/api/v1/reports/revenue", "/api/v1/reports/inventory",
		"/api/v1/reports/popular", "/healthz", "/metrics":
		return path
	}
	return "other"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
