package handlers

import (
	"fmt"
	"net/http"

	"github.com/edsa-freetown/gridwatch/pkg/changefeed"
)

// EventsHandler streams table invalidation signals to the dashboard over
// server-sent events.
type EventsHandler struct {
	hub *changefeed.Hub
}

func NewEventsHandler(hub *changefeed.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream sends one SSE event per table change. The event data is only the
// table name: clients re-run their fetch, they never receive rows.
// GET /api/v1/events?table=reports
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	var tables []string
	if table := r.URL.Query().Get("table"); table != "" {
		tables = append(tables, table)
	}
	events, cancel := h.hub.Subscribe(tables...)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", ev.Table)
			flusher.Flush()
		}
	}
}
