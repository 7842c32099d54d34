package storage

// Storage defines the root interface for the entire data layer.
// It composes all available storage operations. Components should depend on
// the more granular interfaces (TransactionStore, AuditStore, etc.) instead
// of this one.
type Storage interface {
	TransactionStore
	AuditStore
}

// Persisted collections are namespaced by a versioned storage key. Bumping a
// version abandons the old items (their TTL reaps them) instead of migrating
// incompatible formats.
const (
	TransactionsStorageKey = "txledger_v3"
	AuditStorageKey        = "audit_v1"
	ConnectionsStorageKey  = "ws_connections_v1"
)
