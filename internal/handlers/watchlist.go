package handlers

import (
	"net/http"
	"strconv"

	"github.com/finboardhq/finboard-portal/internal/common"
	"github.com/finboardhq/finboard-portal/internal/markets"
	"github.com/finboardhq/finboard-portal/internal/models"
)

// WatchlistHandler proxies the remote watchlist, preserving the auth
// degradation semantics: unauthenticated reads render an empty list.
type WatchlistHandler struct {
	logger  *common.Logger
	service *markets.Service
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(logger *common.Logger, service *markets.Service) *WatchlistHandler {
	return &WatchlistHandler{logger: logger, service: service}
}

// HandleList handles GET /api/watchlist.
func (h *WatchlistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	entries, err := h.service.Watchlist(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("watchlist fetch failed")
		WriteFetchError(w, "watchlist")
		return
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

// HandleAdd handles POST /api/watchlist with {"asset_id": ...}.
func (h *WatchlistHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		AssetID int64 `json:"asset_id"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.AssetID <= 0 {
		WriteError(w, http.StatusBadRequest, "asset_id must be positive")
		return
	}

	entry, err := h.service.AddToWatchlist(r.Context(), req.AssetID)
	if err != nil {
		h.logger.Error().Int64("asset_id", req.AssetID).Err(err).Msg("watchlist add failed")
		WriteError(w, http.StatusBadGateway, "failed to add to watchlist")
		return
	}

	WriteJSON(w, http.StatusCreated, entry)
}

// HandleRemove handles DELETE /api/watchlist/{id}.
func (h *WatchlistHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "invalid watchlist entry id")
		return
	}

	if err := h.service.RemoveFromWatchlist(r.Context(), id); err != nil {
		h.logger.Error().Int64("entry_id", id).Err(err).Msg("watchlist remove failed")
		WriteError(w, http.StatusBadGateway, "failed to remove from watchlist")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
