package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/projecthelena/tictactoe/internal/version"
)

const readinessProbeTimeout = 5 * time.Second

// Health reports that the process is serving requests.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthStatus{
		Status:  "healthy",
		Message: "Tic-Tac-Toe app is running!",
	})
}

// HealthCheck is a named readiness check.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	clock   clockwork.Clock
	started time.Time
	checks  []HealthCheck
}

func NewHealthHandler(clock clockwork.Clock, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		clock:   clock,
		started: clock.Now(),
		checks:  checks,
	}
}

// Healthz is the liveness probe.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    now.Sub(h.started).Seconds(),
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

// Readyz runs the readiness checks in order and reports the first failure.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessProbeTimeout)
	defer cancel()

	for _, hc := range h.checks {
		if err := hc.Check(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":       "unhealthy",
				"failed_check": hc.Name,
				"error":        err.Error(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Version returns build information.
func Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}
