package storage

import (
	"context"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
)

// TransactionStore persists the ledger's transaction collection. The ledger
// remains the single writer-of-record; the store only mirrors its state.
type TransactionStore interface {
	// SaveTransaction upserts one transaction record.
	SaveTransaction(ctx context.Context, tx models.Transaction) error

	// UpdateTransactionStatus mutates the status of a stored record.
	// Missing records and records already in a terminal status are a no-op,
	// never an error: the caller may be updating a transaction that has
	// been pruned or already finished.
	UpdateTransactionStatus(ctx context.Context, id string, status models.TransactionStatus) error

	// ListTransactions retrieves up to limit transactions, newest first.
	ListTransactions(ctx context.Context, limit int32) ([]models.Transaction, error)

	// PruneTransactions deletes everything beyond the newest maxEntries
	// records and returns how many were removed.
	PruneTransactions(ctx context.Context, maxEntries int32) (int, error)
}
