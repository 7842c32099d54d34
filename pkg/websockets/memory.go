package websockets

import (
	"context"
	"sync"
)

// MemoryConnections tracks connection IDs in process memory. It backs the
// local development server, where DynamoDB-backed connection storage is
// unnecessary.
type MemoryConnections struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// Make sure we conform to the interface
var _ ConnectionManager = (*MemoryConnections)(nil)

// NewMemoryConnections creates an empty MemoryConnections.
func NewMemoryConnections() *MemoryConnections {
	return &MemoryConnections{ids: make(map[string]struct{})}
}

// AddConnection records a connection ID.
func (m *MemoryConnections) AddConnection(_ context.Context, connectionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[connectionID] = struct{}{}
	return nil
}

// RemoveConnection drops a connection ID.
func (m *MemoryConnections) RemoveConnection(_ context.Context, connectionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, connectionID)
	return nil
}

// GetAllConnections lists the active connection IDs.
func (m *MemoryConnections) GetAllConnections(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, id)
	}
	return out, nil
}
