package storage

import (
	"context"
	"time"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
)

// AuditStore persists the append-only audit trail.
type AuditStore interface {
	// AppendEvent stores one audit event.
	AppendEvent(ctx context.Context, ev models.AuditEvent) error

	// ListEvents retrieves up to limit events, newest first.
	ListEvents(ctx context.Context, limit int32) ([]models.AuditEvent, error)

	// PruneEvents removes events older than the retention window, then caps
	// the remainder to maxEvents. The age filter is applied before the
	// count cap. Returns how many events were removed.
	PruneEvents(ctx context.Context, maxEvents int32, retention time.Duration) (int, error)
}
