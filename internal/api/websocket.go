package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/hours"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins - WebSocket requests must include valid Bearer token
		// in the Authorization header, which browsers cannot send cross-origin.
		return true
	},
}

// wsWriter wraps a WebSocket connection to ensure thread-safe writes.
// gorilla/websocket only supports one concurrent writer at a time.
type wsWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// WriteJSON safely writes a JSON message to the WebSocket connection.
func (w *wsWriter) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

// statusMessage is one frame of the status stream.
type statusMessage struct {
	Type      string `json:"type"` // "status" or "error"
	IsOpen    bool   `json:"isOpen,omitempty"`
	Label     string `json:"label,omitempty"`
	CheckedAt string `json:"checkedAt,omitempty"`
	Error     string `json:"error,omitempty"`
}

// StreamStatus handles the WebSocket status endpoint:
// GET /v1/stores/{id}/status/ws
//
// The server pushes the current open/closed status immediately on connect,
// then re-evaluates the schedule on every poll tick and pushes a new frame
// whenever the status or its label changes. The client is not expected to
// send anything; incoming messages are drained only to detect disconnects.
func (s *StoreService) StreamStatus(w http.ResponseWriter, r *http.Request, store *db.Tenant, pollInterval time.Duration) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade writes the error response
		return
	}
	defer conn.Close()

	writer := &wsWriter{conn: conn}
	ctx := r.Context()

	// Read pump: detect client disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var last hours.Status
	sent := false
	push := func() bool {
		now := time.Now().UTC()
		status, err := s.computeStatus(ctx, store, now)
		if err != nil {
			_ = writer.WriteJSON(statusMessage{Type: "error", Error: "failed to compute status"})
			return false
		}
		if sent && status == last {
			return true
		}
		last = status
		sent = true
		if err := writer.WriteJSON(statusMessage{
			Type:      "status",
			IsOpen:    status.IsOpen,
			Label:     status.Label,
			CheckedAt: now.Format(timestampLayout),
		}); err != nil {
			return false
		}
		return true
	}

	if !push() {
		return
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}
