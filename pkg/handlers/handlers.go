// Package handlers assembles the HTTP surface: the dashboard API under
// /api, the pay-per-call surface under /x402, and the local WebSocket
// endpoint.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/max-de-bug/portion-app-sub001/pkg/api"
	"github.com/max-de-bug/portion-app-sub001/pkg/handlers/ledgerapi"
	wshandler "github.com/max-de-bug/portion-app-sub001/pkg/handlers/websockets"
	"github.com/max-de-bug/portion-app-sub001/pkg/handlers/x402"
	"github.com/max-de-bug/portion-app-sub001/pkg/handlers/yieldapi"
	"github.com/max-de-bug/portion-app-sub001/pkg/middleware"
)

// ServiceName identifies this backend in health responses.
const ServiceName = "yield-payments-backend"

// Deps collects the handler groups mounted on the router.
type Deps struct {
	Yield      *yieldapi.Handler
	X402       *x402.Handler
	Ledger     *ledgerapi.Handler
	WebSockets *wshandler.Handler
	CORS       middleware.CORSConfig
	Logger     *slog.Logger
}

// NewRouter builds the chi router with all routes and middleware mounted.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewStructuredLogger(deps.Logger))
	r.Use(middleware.CORS(deps.CORS))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", HandleHealth)
		r.Get("/apy", deps.Yield.GetAPY)
		r.Get("/yield/{wallet}", deps.Yield.GetYield)
		r.Get("/balances/{wallet}", deps.Yield.GetBalances)
		r.Get("/aggregator/yields", deps.Yield.GetAggregatedYields)
		r.Get("/transactions", deps.Ledger.ListTransactions)
		r.Get("/audit", deps.Ledger.ListAuditEvents)
	})

	r.Route("/x402", func(r chi.Router) {
		r.Get("/services", deps.X402.ListServices)
		r.Get("/yield/{wallet}", deps.X402.GetYield)
		r.Post("/prepare/{serviceId}", deps.X402.Prepare)
		r.Post("/execute/{serviceId}", deps.X402.Execute)
	})

	if deps.WebSockets != nil {
		r.Get("/ws", deps.WebSockets.ServeHTTP)
	}

	return r
}

// HandleHealth handles GET /api/health.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(api.HealthResponse{
		Status:    "ok",
		Service:   ServiceName,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
