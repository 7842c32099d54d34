// Package audit owns the append-only trail of policy- and transaction-
// relevant actions. Pruning is an explicit maintenance operation, not a
// side effect of inserts.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
	"github.com/max-de-bug/portion-app-sub001/pkg/storage"
)

// Store is the single owner of the audit event collection.
type Store struct {
	persistence storage.AuditStore

	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	events []models.AuditEvent // newest first
}

// New creates a Store. persistence may be nil for in-memory only operation.
func New(persistence storage.AuditStore) *Store {
	return &Store{
		persistence: persistence,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// Load hydrates the collection from persistence at startup.
func (s *Store) Load(ctx context.Context) error {
	if s.persistence == nil {
		return nil
	}
	events, err := s.persistence.ListEvents(ctx, 0)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
	return nil
}

// Record appends a new audit event and returns it.
func (s *Store) Record(ctx context.Context, action, detail string, status models.AuditStatus, category models.AuditCategory) models.AuditEvent {
	ev := models.AuditEvent{
		Id:        s.newID(),
		Action:    action,
		Detail:    detail,
		Status:    status,
		Category:  category,
		Timestamp: s.now(),
	}

	s.mu.Lock()
	s.events = append([]models.AuditEvent{ev}, s.events...)
	s.mu.Unlock()

	if s.persistence != nil {
		if err := s.persistence.AppendEvent(ctx, ev); err != nil {
			slog.Error("failed to persist audit event", "event", ev.Id, "error", err)
		}
	}
	return ev
}

// Events returns up to limit events, newest first.
func (s *Store) Events(limit int) []models.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.AuditEvent, n)
	copy(out, s.events[:n])
	return out
}

// Prune removes events older than the retention window, then caps the
// remainder to maxEvents. The age filter runs before the count cap.
// Returns how many events were removed.
func (s *Store) Prune(ctx context.Context, maxEvents int, retention time.Duration) int {
	cutoff := s.now().Add(-retention)

	s.mu.Lock()
	kept := make([]models.AuditEvent, 0, len(s.events))
	for _, ev := range s.events {
		if ev.Timestamp.Before(cutoff) {
			continue
		}
		kept = append(kept, ev)
	}
	if len(kept) > maxEvents {
		kept = kept[:maxEvents]
	}
	removed := len(s.events) - len(kept)
	s.events = kept
	s.mu.Unlock()

	if s.persistence != nil {
		if _, err := s.persistence.PruneEvents(ctx, int32(maxEvents), retention); err != nil {
			slog.Error("failed to prune persisted audit events", "error", err)
		}
	}
	return removed
}
