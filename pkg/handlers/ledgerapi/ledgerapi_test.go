package ledgerapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/max-de-bug/portion-app-sub001/pkg/api"
	"github.com/max-de-bug/portion-app-sub001/pkg/audit"
	"github.com/max-de-bug/portion-app-sub001/pkg/ledger"
	"github.com/max-de-bug/portion-app-sub001/pkg/models"
)

func TestListTransactions(t *testing.T) {
	t.Run("Newest First", func(t *testing.T) {
		// Arrange
		l := ledger.New(nil, nil, nil)
		l.Add(context.Background(), models.Transaction{Service: "ai-summarize"})
		l.Add(context.Background(), models.Transaction{Service: "ai-translate"})
		h := NewHandler(l, audit.New(nil))

		// Act
		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		rr := httptest.NewRecorder()
		h.ListTransactions(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []*api.Transaction
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "ai-translate", resp[0].Service)
		assert.Equal(t, "ai-summarize", resp[1].Service)
		assert.NotEmpty(t, resp[0].Time)
	})

	t.Run("Limit Applies", func(t *testing.T) {
		l := ledger.New(nil, nil, nil)
		for i := 0; i < 5; i++ {
			l.Add(context.Background(), models.Transaction{Service: "svc"})
		}
		h := NewHandler(l, audit.New(nil))

		req := httptest.NewRequest(http.MethodGet, "/api/transactions?limit=2", nil)
		rr := httptest.NewRecorder()
		h.ListTransactions(rr, req)

		var resp []*api.Transaction
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Len(t, resp, 2)
	})

	t.Run("Empty Ledger Returns Empty List", func(t *testing.T) {
		h := NewHandler(ledger.New(nil, nil, nil), audit.New(nil))

		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		rr := httptest.NewRecorder()
		h.ListTransactions(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})
}

func TestListAuditEvents(t *testing.T) {
	a := audit.New(nil)
	a.Record(context.Background(), "payment.settled", "detail", models.AuditSuccess, models.CategoryTransaction)
	h := NewHandler(ledger.New(nil, nil, nil), a)

	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	rr := httptest.NewRecorder()
	h.ListAuditEvents(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []*api.AuditEvent
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "payment.settled", resp[0].Action)
	assert.Equal(t, "success", resp[0].Status)
}
