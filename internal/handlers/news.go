package handlers

import (
	"net/http"
	"strings"

	"github.com/finboardhq/finboard-portal/internal/common"
	"github.com/finboardhq/finboard-portal/internal/markets"
	"github.com/finboardhq/finboard-portal/internal/models"
)

// NewsHandler serves regional business news and top headlines.
type NewsHandler struct {
	logger         *common.Logger
	service        *markets.Service
	countries      []string
	defaultCountry string
}

// NewNewsHandler creates a new news handler. countries is the selectable
// region set; defaultCountry is used when the query omits one.
func NewNewsHandler(logger *common.Logger, service *markets.Service, countries []string, defaultCountry string) *NewsHandler {
	return &NewsHandler{
		logger:         logger,
		service:        service,
		countries:      countries,
		defaultCountry: defaultCountry,
	}
}

func (h *NewsHandler) validCountry(country string) bool {
	for _, c := range h.countries {
		if c == country {
			return true
		}
	}
	return false
}

// HandleNews handles GET /api/news?country=.
func (h *NewsHandler) HandleNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	country := strings.ToLower(r.URL.Query().Get("country"))
	if country == "" {
		country = h.defaultCountry
	}
	if !h.validCountry(country) {
		WriteError(w, http.StatusBadRequest, "unknown country: "+country)
		return
	}

	items, err := h.service.News(r.Context(), country)
	if err != nil {
		h.logger.Error().Str("country", country).Err(err).Msg("news fetch failed")
		WriteFetchError(w, "news")
		return
	}
	if items == nil {
		items = []models.NewsItem{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"country":  country,
		"articles": items,
	})
}

// HandleHeadlines handles GET /api/news/headlines.
func (h *NewsHandler) HandleHeadlines(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	items, err := h.service.TopHeadlines(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("headlines fetch failed")
		WriteFetchError(w, "headlines")
		return
	}
	if items == nil {
		items = []models.NewsItem{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"articles": items,
	})
}
