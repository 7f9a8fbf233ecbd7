package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/templui/ahorros/internal/ctxkeys"
	"github.com/templui/ahorros/internal/session"
)

type streamHandler struct {
	services session.Services
}

func NewStreamHandler(services session.Services) *streamHandler {
	return &streamHandler{services: services}
}

// Stream pushes full goal, contribution and summary snapshots as server-sent
// events until the client disconnects.
func (h *streamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())
	sess := session.New(r.Context(), principal, h.services)
	defer sess.Close()

	goals, err := sess.Goals()
	if err != nil {
		writeError(w, r, err)
		return
	}
	contributions, err := sess.Contributions()
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := sess.Summary()
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	slog.Debug("stream opened", "user_id", principal.ID)
	defer slog.Debug("stream closed", "user_id", principal.ID)

	for {
		select {
		case <-r.Context().Done():
			return
		case v, ok := <-goals.C():
			if !ok {
				return
			}
			err = writeEvent(rc, w, "goals", v)
		case v, ok := <-contributions.C():
			if !ok {
				return
			}
			err = writeEvent(rc, w, "contributions", v)
		case v, ok := <-summary.C():
			if !ok {
				return
			}
			err = writeEvent(rc, w, "summary", v)
		}
		if err != nil {
			slog.Debug("stream write failed", "error", err, "user_id", principal.ID)
			return
		}
	}
}

func writeEvent(rc *http.ResponseController, w http.ResponseWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	if err != nil {
		return err
	}
	return rc.Flush()
}
