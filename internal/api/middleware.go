package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"augur/internal/metrics"
	"augur/pkg/logger"
)

// corsMiddleware applies a permissive policy so browser-based consumers on
// any origin can call the endpoints directly.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")

		// Preflight gets the headers and nothing else
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags each request so log lines can be correlated
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// observeMiddleware logs each request and records Prometheus metrics
func observeMiddleware(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		duration := time.Since(start)
		metrics.RecordHTTPRequest(r.URL.Path, recorder.status, duration)
		log.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", duration,
			"request_id", recorder.Header().Get("X-Request-ID"))
	})
}

// chain applies the standard middleware stack to an endpoint handler
func chain(log *logger.Logger, h http.Handler) http.Handler {
	return corsMiddleware(requestIDMiddleware(observeMiddleware(log, h)))
}
