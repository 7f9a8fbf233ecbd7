package handler

import (
	"net/http"

	"github.com/templui/ahorros/internal/ctxkeys"
	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/service"
)

type settingsHandler struct {
	settingsService *service.SettingsService
	summaryService  *service.SummaryService
}

func NewSettingsHandler(settingsService *service.SettingsService, summaryService *service.SummaryService) *settingsHandler {
	return &settingsHandler{settingsService: settingsService, summaryService: summaryService}
}

func (h *settingsHandler) Show(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Settings(r.Context(), ctxkeys.Principal(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *settingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.SettingsPatch
	err := decodeJSON(r, &patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	settings, err := h.settingsService.Update(r.Context(), ctxkeys.Principal(r.Context()).ID, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Summary returns every visible goal with its projection and display strings
func (h *settingsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summaryService.Summary(r.Context(), ctxkeys.Principal(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
