package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonatjano/HostMyDocs/internal/httputil"
)

const healthTimeout = 3 * time.Second

// HealthCheck pings one dependency
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler reports whether the server's dependencies answer
type HealthHandler struct {
	checks []HealthCheck
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(logger *slog.Logger, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: logger,
	}
}

// Health pings every dependency.
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	var failing []string
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", "dependency", check.Name, "error", err)
			failing = append(failing, check.Name)
		}
	}

	if len(failing) > 0 {
		httputil.RespondErrorWithExtras(w, http.StatusServiceUnavailable, "dependencies unavailable",
			map[string]interface{}{"failing": failing})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
