package handlers

import (
	"net/http"
	"strings"

	"github.com/finboardhq/finboard-portal/internal/alerts"
	"github.com/finboardhq/finboard-portal/internal/common"
)

// AlertsHandler serves the session-local price alert store.
type AlertsHandler struct {
	logger *common.Logger
	store  *alerts.Store
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(logger *common.Logger, store *alerts.Store) *AlertsHandler {
	return &AlertsHandler{logger: logger, store: store}
}

// HandleList handles GET /api/alerts.
func (h *AlertsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	list := h.store.List()
	if list == nil {
		list = []alerts.Alert{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": list,
	})
}

// HandleCreate handles POST /api/alerts with
// {"symbol": ..., "condition": "above"|"below", "target_price": ...}.
func (h *AlertsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		Symbol      string  `json:"symbol"`
		Condition   string  `json:"condition"`
		TargetPrice float64 `json:"target_price"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	alert, err := h.store.Create(strings.TrimSpace(req.Symbol), alerts.Condition(req.Condition), req.TargetPrice)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info().Str("symbol", alert.Symbol).Str("condition", string(alert.Condition)).Float64("target", alert.TargetPrice).Msg("alert created")
	WriteJSON(w, http.StatusCreated, alert)
}

// HandleDelete handles DELETE /api/alerts/{id}. Deleting an unknown id is a
// no-op and still returns 204.
func (h *AlertsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing alert id")
		return
	}

	h.store.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}
