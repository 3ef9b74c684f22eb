package handlers

import (
	"net/http"
	"strings"

	"github.com/finboardhq/finboard-portal/internal/common"
	"github.com/finboardhq/finboard-portal/internal/interfaces"
	"github.com/finboardhq/finboard-portal/internal/models"
)

// Settings keys persisted in the key-value store.
const (
	settingDefaultCountry  = "settings:default_country"
	settingDefaultExchange = "settings:default_exchange"
	settingDisplayCurrency = "settings:display_currency"
)

// SettingsHandler persists user display preferences in the key-value store.
type SettingsHandler struct {
	logger    *common.Logger
	kv        interfaces.KeyValueStorage
	countries []string
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(logger *common.Logger, kv interfaces.KeyValueStorage, countries []string) *SettingsHandler {
	return &SettingsHandler{logger: logger, kv: kv, countries: countries}
}

type settingsPayload struct {
	DefaultCountry  string `json:"default_country,omitempty"`
	DefaultExchange string `json:"default_exchange,omitempty"`
	DisplayCurrency string `json:"display_currency,omitempty"`
}

// HandleGet handles GET /api/settings. Unset preferences are omitted.
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, h.readSettings(r))
}

// HandleSave handles PUT /api/settings. Only the fields present in the body
// are updated; each is validated before anything is written.
func (h *SettingsHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req settingsPayload
	if err := DecodeJSONBody(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.DefaultCountry = strings.ToLower(strings.TrimSpace(req.DefaultCountry))
	req.DefaultExchange = strings.ToUpper(strings.TrimSpace(req.DefaultExchange))
	req.DisplayCurrency = strings.ToUpper(strings.TrimSpace(req.DisplayCurrency))

	if req.DefaultCountry != "" && !h.validCountry(req.DefaultCountry) {
		WriteError(w, http.StatusBadRequest, "unknown country: "+req.DefaultCountry)
		return
	}
	if req.DefaultExchange != "" && !models.ValidExchange(req.DefaultExchange) {
		WriteError(w, http.StatusBadRequest, "unknown exchange: "+req.DefaultExchange)
		return
	}

	updates := map[string]string{}
	if req.DefaultCountry != "" {
		updates[settingDefaultCountry] = req.DefaultCountry
	}
	if req.DefaultExchange != "" {
		updates[settingDefaultExchange] = req.DefaultExchange
	}
	if req.DisplayCurrency != "" {
		updates[settingDisplayCurrency] = req.DisplayCurrency
	}

	for key, value := range updates {
		if err := h.kv.Set(r.Context(), key, value); err != nil {
			h.logger.Error().Str("key", key).Err(err).Msg("failed to save setting")
			WriteError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	// Re-read so the response reflects what actually persisted.
	WriteJSON(w, http.StatusOK, h.readSettings(r))
}

func (h *SettingsHandler) readSettings(r *http.Request) settingsPayload {
	var payload settingsPayload
	if v, err := h.kv.Get(r.Context(), settingDefaultCountry); err == nil {
		payload.DefaultCountry = v
	}
	if v, err := h.kv.Get(r.Context(), settingDefaultExchange); err == nil {
		payload.DefaultExchange = v
	}
	if v, err := h.kv.Get(r.Context(), settingDisplayCurrency); err == nil {
		payload.DisplayCurrency = v
	}
	return payload
}

func (h *SettingsHandler) validCountry(country string) bool {
	for _, c := range h.countries {
		if c == country {
			return true
		}
	}
	return false
}
