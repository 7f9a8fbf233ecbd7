package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/ahorros/internal/repository"
	"github.com/templui/ahorros/internal/service"
	"github.com/templui/ahorros/internal/session"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("malformed request body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors to status codes. Unknown errors are logged
// and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrEmptyPatch):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrNoSession):
		status = http.StatusUnauthorized
	case errors.Is(err, repository.ErrPermissionDenied):
		status = http.StatusForbidden
	case service.IsNotFound(err):
		status = http.StatusNotFound
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}
