package handler

import (
	"net/http"

	"github.com/templui/ahorros/internal/ctxkeys"
	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/service"
)

type contributionHandler struct {
	contributionService *service.ContributionService
}

func NewContributionHandler(contributionService *service.ContributionService) *contributionHandler {
	return &contributionHandler{contributionService: contributionService}
}

func (h *contributionHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.contributionService.Contributions(r.Context(), ctxkeys.Principal(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *contributionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date   string  `json:"date"`
		Amount float64 `json:"amount"`
		Note   string  `json:"note"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.contributionService.Create(r.Context(), ctxkeys.Principal(r.Context()), req.Date, req.Amount, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *contributionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.ContributionPatch
	err := decodeJSON(r, &patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.contributionService.Update(r.Context(), ctxkeys.Principal(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *contributionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.contributionService.Delete(r.Context(), ctxkeys.Principal(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
