package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/finboardhq/finboard-portal/internal/common"
	"github.com/finboardhq/finboard-portal/internal/markets"
	"github.com/finboardhq/finboard-portal/internal/models"
	"github.com/finboardhq/finboard-portal/internal/view"
)

// MarketsHandler serves the composed market browse views.
type MarketsHandler struct {
	logger  *common.Logger
	service *markets.Service
}

// NewMarketsHandler creates a new markets handler.
func NewMarketsHandler(logger *common.Logger, service *markets.Service) *MarketsHandler {
	return &MarketsHandler{logger: logger, service: service}
}

// viewStateResponse is the JSON shape of a browse view snapshot.
type viewStateResponse struct {
	View     string              `json:"view"`
	Filter   string              `json:"filter,omitempty"`
	Assets   []view.DisplayAsset `json:"assets"`
	Selected *view.DisplayAsset  `json:"selected"`
}

func newViewStateResponse(name string, state view.State) viewStateResponse {
	resp := viewStateResponse{
		View:     name,
		Filter:   state.Filter,
		Assets:   state.Assets,
		Selected: state.Selected,
	}
	if resp.Assets == nil {
		resp.Assets = []view.DisplayAsset{}
	}
	return resp
}

// HandleAssets handles GET /api/markets/assets?type=&exchange=.
// type selects the view ("crypto" or "stocks", default stocks); exchange
// filters the stock view and clears its selection when it changes.
func (h *MarketsHandler) HandleAssets(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	viewName := strings.ToLower(r.URL.Query().Get("type"))
	if viewName == "" {
		viewName = markets.ViewStocks
	}

	var (
		state view.State
		err   error
	)
	switch viewName {
	case markets.ViewCrypto:
		state, err = h.service.CryptoView(r.Context())
	case markets.ViewStocks:
		exchange := strings.ToUpper(r.URL.Query().Get("exchange"))
		if exchange != "" && !models.ValidExchange(exchange) {
			WriteError(w, http.StatusBadRequest, "unknown exchange: "+exchange)
			return
		}
		state, err = h.service.StockView(r.Context(), exchange)
	default:
		WriteError(w, http.StatusBadRequest, "unknown view type: "+viewName)
		return
	}
	if err != nil {
		h.logger.Error().Str("view", viewName).Err(err).Msg("asset view refresh failed")
		WriteFetchError(w, "assets")
		return
	}

	WriteJSON(w, http.StatusOK, newViewStateResponse(viewName, state))
}

// HandleSelect handles POST /api/markets/select with {"view": ..., "symbol": ...}.
func (h *MarketsHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		View   string `json:"view"`
		Symbol string `json:"symbol"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.View == "" {
		req.View = markets.ViewStocks
	}

	state, ok, err := h.service.Select(r.Context(), req.View, req.Symbol)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !ok {
		WriteError(w, http.StatusNotFound, "symbol not in current view: "+req.Symbol)
		return
	}

	WriteJSON(w, http.StatusOK, newViewStateResponse(req.View, state))
}

// HandleHistory handles GET /api/markets/assets/{symbol}/history?period=.
func (h *MarketsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	symbol := r.PathValue("symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "missing symbol")
		return
	}

	period := models.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = models.Period1D
	}
	if !models.ValidPeriod(period) {
		WriteError(w, http.StatusBadRequest, "unknown period: "+string(period))
		return
	}

	series, err := h.service.History(r.Context(), symbol, period)
	if err != nil {
		h.logger.Error().Str("symbol", symbol).Str("period", string(period)).Err(err).Msg("history fetch failed")
		WriteFetchError(w, "price history")
		return
	}
	if series == nil {
		series = models.PriceSeries{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"period": period,
		"series": series,
	})
}

// HandleSparkline handles GET /api/markets/assets/{id}/sparkline?window=.
// The raw by-id points back the watchlist trend strips.
func (h *MarketsHandler) HandleSparkline(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	window := r.URL.Query().Get("window")
	if window == "" {
		window = models.Window24H
	}
	if !models.ValidSparklineWindow(window) {
		WriteError(w, http.StatusBadRequest, "unknown window: "+window)
		return
	}

	points, err := h.service.Sparkline(r.Context(), id, window)
	if err != nil {
		h.logger.Error().Int64("asset_id", id).Str("window", window).Err(err).Msg("sparkline fetch failed")
		WriteFetchError(w, "asset history")
		return
	}
	if points == nil {
		points = []models.PricePoint{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"asset_id": id,
		"window":   window,
		"points":   points,
	})
}

// HandleSummary handles GET /api/markets/summary.
func (h *MarketsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("market summary fetch failed")
		WriteFetchError(w, "market summary")
		return
	}
	if summary.Tickers == nil {
		summary.Tickers = []models.MarketTickerItem{}
	}
	if summary.Gainers == nil {
		summary.Gainers = []models.MarketTickerItem{}
	}

	WriteJSON(w, http.StatusOK, summary)
}
