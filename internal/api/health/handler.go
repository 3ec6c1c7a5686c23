package health

import (
	"encoding/json"
	"net/http"
	"time"

	"augur/pkg/logger"
)

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	startTime   time.Time
	serviceName string
	version     string
	checks      map[string]bool
}

// New creates a new health check handler. checks maps component names to
// their configuration state; the service is stateless, so readiness reflects
// configuration rather than live connections.
func New(log *logger.Logger, serviceName string, version string, checks map[string]bool) *Handler {
	return &Handler{
		log:         log,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
		checks:      checks,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                     `json:"status"` // "healthy", "unhealthy"
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status string `json:"status"`
}

// HandleLiveness returns 200 OK if service is running
// Used by Kubernetes liveness probe
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
	})
}

// HandleReadiness checks if service is ready to accept traffic
// Used by Kubernetes readiness probe
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	status, statusCode := h.currentStatus()

	if statusCode != http.StatusOK {
		h.log.Warn("Readiness check failed", "checks", status.Checks)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(status)
}

// HandleHealth returns detailed health status (includes all checks)
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status, statusCode := h.currentStatus()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(status)
}

func (h *Handler) currentStatus() (HealthStatus, int) {
	checks := make(map[string]ComponentHealth, len(h.checks))
	allHealthy := true
	for name, ok := range h.checks {
		component := ComponentHealth{Status: "healthy"}
		if !ok {
			component.Status = "unhealthy"
			allHealthy = false
		}
		checks[name] = component
	}

	status := HealthStatus{
		Status:    "healthy",
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    checks,
	}

	statusCode := http.StatusOK
	if !allHealthy {
		status.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	return status, statusCode
}
