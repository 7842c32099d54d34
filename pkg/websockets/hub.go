package websockets

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
)

// Make sure we conform to the interface
var _ Publisher = (*LocalHub)(nil)

// LocalHub tracks live WebSocket connections for the local development
// server and fans messages out to them directly, without API Gateway.
type LocalHub struct {
	mu    sync.Mutex
	conns map[string]*websocket.Conn
}

// NewLocalHub creates an empty LocalHub.
func NewLocalHub() *LocalHub {
	return &LocalHub{conns: make(map[string]*websocket.Conn)}
}

// Register associates a live connection with its ID.
func (h *LocalHub) Register(connectionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[connectionID] = conn
}

// Unregister drops a connection by ID.
func (h *LocalHub) Unregister(connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, connectionID)
}

// Publish sends the message to every registered connection. Connections
// that fail to write are dropped.
func (h *LocalHub) Publish(_ context.Context, message Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.conns {
		if err := conn.WriteJSON(message); err != nil {
			conn.Close()
			delete(h.conns, id)
		}
	}
	return nil
}
