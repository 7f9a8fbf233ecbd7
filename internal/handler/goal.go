package handler

import (
	"net/http"

	"github.com/templui/ahorros/internal/ctxkeys"
	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/service"
)

type goalHandler struct {
	goalService  *service.GoalService
	shareService *service.ShareService
}

func NewGoalHandler(goalService *service.GoalService, shareService *service.ShareService) *goalHandler {
	return &goalHandler{goalService: goalService, shareService: shareService}
}

func (h *goalHandler) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.Goals(r.Context(), ctxkeys.Principal(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *goalHandler) Show(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.ByID(r.Context(), ctxkeys.Principal(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *goalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string  `json:"name"`
		Target float64 `json:"target"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), ctxkeys.Principal(r.Context()), req.Name, req.Target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (h *goalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.GoalPatch
	err := decodeJSON(r, &patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.goalService.Update(r.Context(), ctxkeys.Principal(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *goalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.goalService.Delete(r.Context(), ctxkeys.Principal(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Grant adds or replaces the share for the email in the path
func (h *goalHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CanEdit bool `json:"canEdit"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.shareService.Grant(r.Context(), ctxkeys.Principal(r.Context()), r.PathValue("id"), r.PathValue("email"), req.CanEdit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *goalHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	err := h.shareService.Revoke(r.Context(), ctxkeys.Principal(r.Context()), r.PathValue("id"), r.PathValue("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
