package webchat

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/websocket"
)

const wsPollInterval = 2 * time.Second

// HandleWS is GET /api/chat/ws. It streams the same payload the polling
// endpoint returns, driven by a server-side poll loop, so operator replies
// reach the widget without it polling over HTTP.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	defer conn.Close()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		_ = websocket.JSON.Send(conn, map[string]string{"error": "session_id is required"})
		return
	}
	lastID, _ := strconv.ParseInt(r.URL.Query().Get("last_message_id"), 10, 64)

	h.logger.Info("webchat: stream opened", "session_id", sessionID, "last_message_id", lastID)

	// Client disconnect surfaces as a receive error.
	done := make(chan struct{})
	go func() {
		defer close(done)
		var discard string
		for {
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPollInterval)
	defer ticker.Stop()

	first := true
	for {
		payload, err := h.pollPayload(r.Context(), sessionID, lastID)
		if err != nil {
			h.logger.Warn("webchat: stream poll failed", "error", err, "session_id", sessionID)
		} else if first || payload.HasNewMessages {
			if err := websocket.JSON.Send(conn, payload); err != nil {
				return
			}
			lastID = payload.LatestMessageID
			first = false
		}

		select {
		case <-done:
			h.logger.Info("webchat: stream closed", "session_id", sessionID)
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
