package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
	scheduler_mocks "github.com/max-de-bug/portion-app-sub001/pkg/scheduler/mocks"
	storage_mocks "github.com/max-de-bug/portion-app-sub001/pkg/storage/mocks"
	"github.com/max-de-bug/portion-app-sub001/pkg/websockets"
)

func newTestLedger() *Ledger {
	l := New(nil, nil, &websockets.NoOpPublisher{})
	seq := 0
	l.newID = func() string {
		seq++
		return fmt.Sprintf("tx-%03d", seq)
	}
	return l
}

func TestAdd(t *testing.T) {
	t.Run("Assigns ID And PROCESSING Status", func(t *testing.T) {
		// Arrange
		l := newTestLedger()

		// Act
		tx := l.Add(context.Background(), models.Transaction{
			Service: "ai-summarize",
			Amount:  "0.05 USDV",
		})

		// Assert
		assert.Equal(t, "tx-001", tx.Id)
		assert.Equal(t, models.PROCESSING, tx.Status)
		assert.False(t, tx.Timestamp.IsZero())
	})

	t.Run("Newest First", func(t *testing.T) {
		l := newTestLedger()

		l.Add(context.Background(), models.Transaction{Service: "first"})
		l.Add(context.Background(), models.Transaction{Service: "second"})
		l.Add(context.Background(), models.Transaction{Service: "third"})

		txs := l.Transactions()
		assert.Len(t, txs, 3)
		assert.Equal(t, "third", txs[0].Service)
		assert.Equal(t, "first", txs[2].Service)
	})

	t.Run("Evicts Beyond Cap", func(t *testing.T) {
		l := newTestLedger()

		for i := 0; i < MaxEntries+5; i++ {
			l.Add(context.Background(), models.Transaction{Service: fmt.Sprintf("svc-%d", i)})
		}

		txs := l.Transactions()
		assert.Len(t, txs, MaxEntries)
		// The newest survives, the oldest five are gone.
		assert.Equal(t, fmt.Sprintf("svc-%d", MaxEntries+4), txs[0].Service)
		assert.Equal(t, "svc-5", txs[MaxEntries-1].Service)
	})

	t.Run("Clamps Timestamp When Clock Steps Back", func(t *testing.T) {
		l := newTestLedger()
		base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

		l.now = func() time.Time { return base }
		l.Add(context.Background(), models.Transaction{Service: "first"})

		l.now = func() time.Time { return base.Add(-time.Minute) }
		l.Add(context.Background(), models.Transaction{Service: "second"})

		txs := l.Transactions()
		assert.False(t, txs[0].Timestamp.Before(txs[1].Timestamp))
	})

	t.Run("Schedules Deferred Progression", func(t *testing.T) {
		// 1. Setup
		mockScheduler := new(scheduler_mocks.Scheduler)
		l := New(mockScheduler, nil, nil)

		// 2. Mock expectations
		mockScheduler.On("ScheduleTransition", mock.Anything, mock.AnythingOfType("string"), models.VALIDATED, int32(2)).Return(nil)
		mockScheduler.On("ScheduleTransition", mock.Anything, mock.AnythingOfType("string"), models.SETTLED, int32(6)).Return(nil)

		// 3. Execute
		l.Add(context.Background(), models.Transaction{Service: "ai-summarize"})

		// 4. Assert
		mockScheduler.AssertExpectations(t)
	})

	t.Run("Persists New Entry", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		mockStorage.On("SaveTransaction", mock.Anything, mock.AnythingOfType("models.Transaction")).Return(nil)
		l := New(nil, mockStorage, nil)

		l.Add(context.Background(), models.Transaction{Service: "ai-summarize"})

		mockStorage.AssertExpectations(t)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("Transitions To VALIDATED", func(t *testing.T) {
		l := newTestLedger()
		tx := l.Add(context.Background(), models.Transaction{Service: "ai-summarize"})

		l.UpdateStatus(context.Background(), tx.Id, models.VALIDATED)

		got, ok := l.Get(tx.Id)
		assert.True(t, ok)
		assert.Equal(t, models.VALIDATED, got.Status)
	})

	t.Run("Unknown ID Is A NoOp", func(t *testing.T) {
		l := newTestLedger()
		l.Add(context.Background(), models.Transaction{Service: "ai-summarize"})

		assert.NotPanics(t, func() {
			l.UpdateStatus(context.Background(), "missing", models.SETTLED)
		})
	})

	t.Run("Terminal Status Is Immutable", func(t *testing.T) {
		l := newTestLedger()
		tx := l.Add(context.Background(), models.Transaction{Service: "ai-summarize"})

		l.UpdateStatus(context.Background(), tx.Id, models.FAILED)
		// A stale deferred transition arriving after failure must not revive it.
		l.UpdateStatus(context.Background(), tx.Id, models.VALIDATED)
		l.UpdateStatus(context.Background(), tx.Id, models.SETTLED)

		got, _ := l.Get(tx.Id)
		assert.Equal(t, models.FAILED, got.Status)
	})

	t.Run("Terminal NoOp Skips Persistence", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		mockStorage.On("SaveTransaction", mock.Anything, mock.Anything).Return(nil)
		mockStorage.On("UpdateTransactionStatus", mock.Anything, mock.AnythingOfType("string"), models.SETTLED).Return(nil).Once()
		l := New(nil, mockStorage, nil)

		tx := l.Add(context.Background(), models.Transaction{Service: "ai-summarize"})
		l.UpdateStatus(context.Background(), tx.Id, models.SETTLED)
		l.UpdateStatus(context.Background(), tx.Id, models.SETTLED)

		mockStorage.AssertExpectations(t)
	})
}

func TestLoad(t *testing.T) {
	t.Run("Hydrates From Store", func(t *testing.T) {
		stored := []models.Transaction{
			{Id: "tx-b", Service: "ai-translate", Status: models.SETTLED},
			{Id: "tx-a", Service: "ai-summarize", Status: models.FAILED},
		}
		mockStorage := new(storage_mocks.Storage)
		mockStorage.On("ListTransactions", mock.Anything, int32(MaxEntries)).Return(stored, nil)
		l := New(nil, mockStorage, nil)

		err := l.Load(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, stored, l.Transactions())
		mockStorage.AssertExpectations(t)
	})
}

func TestClear(t *testing.T) {
	l := newTestLedger()
	l.Add(context.Background(), models.Transaction{Service: "ai-summarize"})
	l.Add(context.Background(), models.Transaction{Service: "ai-translate"})

	l.Clear(context.Background())

	assert.Empty(t, l.Transactions())
}
