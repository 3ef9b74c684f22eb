package handlers

import (
	"net/http"
	"time"

	"github.com/finboardhq/finboard-portal/internal/common"
	"github.com/finboardhq/finboard-portal/internal/config"
)

// HealthHandler answers liveness probes with the service identity and
// uptime. It reports only on the portal process; the remote market API has
// its own health surface.
type HealthHandler struct {
	logger  *common.Logger
	started time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger) *HealthHandler {
	return &HealthHandler{logger: logger, started: time.Now()}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"service":        "finboard-portal",
		"version":        config.GetVersion(),
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}
