package scheduler

import (
	"context"
	"time"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
)

// TimerScheduler delivers deferred transitions with in-process timers.
// It is the default for single-instance deployments; the SQS scheduler
// covers topologies where the process may not outlive the delay.
type TimerScheduler struct {
	// Applier is set after construction to break the ledger/scheduler
	// initialization cycle.
	Applier StatusApplier
}

// Make sure we conform to the interface
var _ Scheduler = (*TimerScheduler)(nil)

// ScheduleTransition fires the transition after the delay. The timer
// deliberately outlives the scheduling request's context: a deferred
// settlement must not be cancelled by the HTTP request finishing.
func (t *TimerScheduler) ScheduleTransition(_ context.Context, txID string, status models.TransactionStatus, delaySeconds int32) error {
	time.AfterFunc(time.Duration(delaySeconds)*time.Second, func() {
		t.Applier.UpdateStatus(context.Background(), txID, status)
	})
	return nil
}
