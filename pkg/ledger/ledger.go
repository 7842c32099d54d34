// Package ledger owns the client-visible record of payment attempts: status
// transitions, newest-first ordering, retention, and persistence. All
// mutations are serialized through one Ledger instance so readers never
// observe a torn update between id assignment and insertion.
package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
	"github.com/max-de-bug/portion-app-sub001/pkg/scheduler"
	"github.com/max-de-bug/portion-app-sub001/pkg/storage"
	"github.com/max-de-bug/portion-app-sub001/pkg/websockets"
)

const (
	// MaxEntries is the retention cap; older entries are evicted on insert.
	MaxEntries = 50

	// Deferred automatic progression delays for a freshly created entry.
	validateDelaySeconds int32 = 2
	settleDelaySeconds   int32 = 6
)

// Ledger is the single owner of the transaction collection.
type Ledger struct {
	sched     scheduler.Scheduler
	store     storage.TransactionStore
	publisher websockets.Publisher

	now   func() time.Time
	newID func() string

	mu      sync.Mutex
	entries []models.Transaction // newest first
}

// New creates a Ledger. Scheduler, store, and publisher may each be nil:
// without a scheduler there is no automatic progression, without a store no
// persistence, without a publisher no UI push.
func New(sched scheduler.Scheduler, store storage.TransactionStore, publisher websockets.Publisher) *Ledger {
	return &Ledger{
		sched:     sched,
		store:     store,
		publisher: publisher,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Make sure we conform to the applier interface used by schedulers.
var _ scheduler.StatusApplier = (*Ledger)(nil)

// Load hydrates the collection from persistence. Called once at startup,
// before the ledger is shared.
func (l *Ledger) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	txs, err := l.store.ListTransactions(ctx, MaxEntries)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.entries = txs
	l.mu.Unlock()
	return nil
}

// Add assigns an id and timestamp to the draft, prepends it in PROCESSING
// status, evicts beyond the retention cap, and schedules the deferred
// VALIDATED and SETTLED progressions. It returns the stored record.
func (l *Ledger) Add(ctx context.Context, draft models.Transaction) models.Transaction {
	l.mu.Lock()

	draft.Id = l.newID()
	draft.Status = models.PROCESSING
	draft.Timestamp = l.now()
	// Keep insertion order and timestamp order aligned even if the clock
	// steps backwards between inserts.
	if len(l.entries) > 0 && draft.Timestamp.Before(l.entries[0].Timestamp) {
		draft.Timestamp = l.entries[0].Timestamp
	}

	l.entries = append([]models.Transaction{draft}, l.entries...)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	l.mu.Unlock()

	l.persist(ctx, draft)
	l.publish(ctx, draft)

	if l.sched != nil {
		if err := l.sched.ScheduleTransition(ctx, draft.Id, models.VALIDATED, validateDelaySeconds); err != nil {
			slog.Error("failed to schedule validation transition", "transaction", draft.Id, "error", err)
		}
		if err := l.sched.ScheduleTransition(ctx, draft.Id, models.SETTLED, settleDelaySeconds); err != nil {
			slog.Error("failed to schedule settlement transition", "transaction", draft.Id, "error", err)
		}
	}

	return draft
}

// UpdateStatus mutates a transaction's status by id. Unknown ids are a
// no-op, not an error: the record may have been pruned. Records already in
// a terminal status are also a no-op, which is what makes a stale deferred
// transition harmless after the orchestrator has settled or failed the
// payment.
func (l *Ledger) UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) {
	l.mu.Lock()

	var updated *models.Transaction
	for i := range l.entries {
		if l.entries[i].Id != id {
			continue
		}
		if l.entries[i].Status.Terminal() {
			l.mu.Unlock()
			return
		}
		l.entries[i].Status = status
		tx := l.entries[i]
		updated = &tx
		break
	}
	l.mu.Unlock()

	if updated == nil {
		return
	}

	if l.store != nil {
		if err := l.store.UpdateTransactionStatus(ctx, id, status); err != nil {
			slog.Error("failed to persist status update", "transaction", id, "error", err)
		}
	}
	l.publish(ctx, *updated)
}

// Get returns a transaction by id.
func (l *Ledger) Get(id string) (models.Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, tx := range l.entries {
		if tx.Id == id {
			return tx, true
		}
	}
	return models.Transaction{}, false
}

// Transactions returns a snapshot of the collection, newest first.
func (l *Ledger) Transactions() []models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear removes every transaction. Individual deletion is deliberately not
// offered; failed payments stay visible until cleared or pruned.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()

	if l.store != nil {
		if _, err := l.store.PruneTransactions(ctx, 0); err != nil {
			slog.Error("failed to clear persisted transactions", "error", err)
		}
	}
}

func (l *Ledger) persist(ctx context.Context, tx models.Transaction) {
	if l.store == nil {
		return
	}
	if err := l.store.SaveTransaction(ctx, tx); err != nil {
		slog.Error("failed to persist transaction", "transaction", tx.Id, "error", err)
	}
}

func (l *Ledger) publish(ctx context.Context, tx models.Transaction) {
	if l.publisher == nil {
		return
	}
	msg := websockets.Message{
		Type: websockets.MessageTypeTransactionUpdate,
		Payload: websockets.TransactionUpdatePayload{
			TransactionID: tx.Id,
			Service:       tx.Service,
			Amount:        tx.Amount,
			Status:        string(tx.Status),
		},
	}
	if err := l.publisher.Publish(ctx, msg); err != nil {
		slog.Error("failed to publish transaction update", "transaction", tx.Id, "error", err)
	}
}
