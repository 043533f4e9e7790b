package web

import (
	"fmt"
	"net/http"

	"github.com/joshdoucet/snapandsave/internal/contract"
)

// handleEvents streams change notifications for one resource as server-sent
// events. Clients subscribe to the collection by default, or to a single item
// with ?topic=/items/{id}; on every event they re-query the resource.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = contract.PathItems
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, "application/json", errorResponse{Error: "streaming unsupported"})
		return
	}

	ch, cancel := s.notifier.Subscribe(topic)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case changed, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", changed)
			flusher.Flush()
		}
	}
}
