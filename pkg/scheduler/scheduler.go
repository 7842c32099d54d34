package scheduler

import (
	"context"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
)

// Scheduler defers a transaction status transition. Implementations only
// deliver the transition; whether it still applies is decided by the
// applier, which refuses transitions out of a terminal state.
type Scheduler interface {
	// ScheduleTransition requests that the transaction move to status after
	// the given delay.
	ScheduleTransition(ctx context.Context, txID string, status models.TransactionStatus, delaySeconds int32) error
}

// StatusApplier applies a delivered transition. Satisfied by the ledger.
type StatusApplier interface {
	UpdateStatus(ctx context.Context, txID string, status models.TransactionStatus)
}
