package adaptor

import (
	"fmt"
	"net/http"
	"time"

	"room-booking/internal/broadcast"
	"room-booking/pkg/utils"

	"go.uber.org/zap"
)

type StreamHandler struct {
	broadcaster *broadcast.Broadcaster
	heartbeat   time.Duration
	log         *zap.Logger
}

func NewStreamHandler(broadcaster *broadcast.Broadcaster, config utils.StreamConfig, log *zap.Logger) *StreamHandler {
	heartbeat := time.Duration(config.HeartbeatSeconds) * time.Second
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}

	return &StreamHandler{
		broadcaster: broadcaster,
		heartbeat:   heartbeat,
		log:         log.With(zap.String("handler", "stream")),
	}
}

// Stream handles GET /api/bookings/stream. It holds the connection open
// and relays booking lifecycle events as server-sent events until the
// client disconnects.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.ResponseInternalError(w, "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Disable proxy buffering so events reach the client immediately.
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	client := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(client)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ":heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case event, open := <-client.Events():
			if !open {
				// Dropped by the broadcaster, likely for lagging.
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, event.Data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
