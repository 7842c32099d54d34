// Package ledgerapi serves the transaction ledger and the audit log.
package ledgerapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/max-de-bug/portion-app-sub001/pkg/api"
	"github.com/max-de-bug/portion-app-sub001/pkg/audit"
	"github.com/max-de-bug/portion-app-sub001/pkg/ledger"
	"github.com/max-de-bug/portion-app-sub001/pkg/mapping"
)

// Handler holds the dependencies for ledger-related handlers.
type Handler struct {
	Ledger *ledger.Ledger
	Audit  *audit.Store
}

// NewHandler creates a new Handler.
func NewHandler(l *ledger.Ledger, a *audit.Store) *Handler {
	return &Handler{Ledger: l, Audit: a}
}

// ListTransactions handles GET /api/transactions. The ledger is already
// capped and ordered newest-first; an optional limit narrows it further.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := h.Ledger.Transactions()
	if limit := parseLimit(r); limit > 0 && limit < len(txs) {
		txs = txs[:limit]
	}

	apiTxs := make([]*api.Transaction, len(txs))
	for i := range txs {
		apiTxs[i] = mapping.ToApiTransaction(&txs[i])
	}

	writeJSON(w, http.StatusOK, apiTxs)
}

// ListAuditEvents handles GET /api/audit.
func (h *Handler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)
	if limit <= 0 {
		limit = 100
	}

	events := h.Audit.Events(limit)
	apiEvents := make([]*api.AuditEvent, len(events))
	for i := range events {
		apiEvents[i] = mapping.ToApiAuditEvent(&events[i])
	}

	writeJSON(w, http.StatusOK, apiEvents)
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
