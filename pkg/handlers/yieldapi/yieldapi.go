// Package yieldapi serves the read-only yield surface: current APY,
// per-wallet spendable yield, wallet balances, and aggregated yield offers.
package yieldapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/max-de-bug/portion-app-sub001/pkg/api"
	"github.com/max-de-bug/portion-app-sub001/pkg/chain"
	"github.com/max-de-bug/portion-app-sub001/pkg/mapping"
	"github.com/max-de-bug/portion-app-sub001/pkg/models"
	"github.com/max-de-bug/portion-app-sub001/pkg/yield"
)

// minWalletLength rejects obviously malformed addresses before any RPC work.
const minWalletLength = 32

// APYOracle reports the current protocol APY and where it came from.
type APYOracle interface {
	CurrentAPY(ctx context.Context, protocol string) (float64, yield.APYOrigin)
}

// BalanceService resolves a wallet's native balance in lamports.
type BalanceService interface {
	Balance(ctx context.Context, wallet string) (uint64, error)
}

// Aggregator collects ranked yield offers for a token.
type Aggregator interface {
	AggregatedYields(ctx context.Context, token string) []models.YieldOpportunity
}

// Handler holds the dependencies for yield-related handlers.
type Handler struct {
	Oracle     APYOracle
	Positions  yield.PositionProvider
	Tokens     yield.TokenBalanceProvider
	Balances   BalanceService
	Aggregator Aggregator

	// Protocol and Token are the defaults used when a request doesn't name one.
	Protocol string
	Token    string
}

// NewHandler creates a new Handler.
func NewHandler(oracle APYOracle, positions yield.PositionProvider, tokens yield.TokenBalanceProvider, balances BalanceService, aggregator Aggregator, protocol, token string) *Handler {
	return &Handler{
		Oracle:     oracle,
		Positions:  positions,
		Tokens:     tokens,
		Balances:   balances,
		Aggregator: aggregator,
		Protocol:   protocol,
		Token:      token,
	}
}

// GetAPY handles GET /api/apy. It never fails: the oracle degrades through
// its fallback chain down to the built-in default rate.
func (h *Handler) GetAPY(w http.ResponseWriter, r *http.Request) {
	protocol := r.URL.Query().Get("protocol")
	if protocol == "" {
		protocol = h.Protocol
	}

	apy, origin := h.Oracle.CurrentAPY(r.Context(), protocol)

	writeJSON(w, http.StatusOK, api.APYResponse{
		APY:       apy,
		Protocol:  protocol,
		Token:     h.Token,
		Source:    string(origin),
		Timestamp: time.Now().UTC(),
	})
}

// GetYield handles GET /api/yield/{wallet}.
func (h *Handler) GetYield(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")
	if len(wallet) < minWalletLength {
		writeError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}

	snapshot, err := h.Positions.SpendableYield(r.Context(), wallet)
	if err != nil {
		slog.Error("failed to resolve spendable yield", "wallet", wallet, "error", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to resolve yield: %v", err))
		return
	}

	apy, _ := h.Oracle.CurrentAPY(r.Context(), h.Protocol)
	writeJSON(w, http.StatusOK, mapping.ToApiYieldSnapshot(snapshot, apy))
}

// GetBalances handles GET /api/balances/{wallet}. The native balance comes
// from the chain resolver; token balances from the vault positions API.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")
	if len(wallet) < minWalletLength {
		writeError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}

	balances := make(map[string]api.TokenBalance)

	lamports, err := h.Balances.Balance(r.Context(), wallet)
	if err != nil {
		if errors.Is(err, chain.ErrInvalidAddress) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid wallet address: %v", err))
			return
		}
		writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to resolve balance: %v", err))
		return
	}
	sol := chain.LamportsToSol(lamports)
	balances["SOL"] = api.TokenBalance{
		Balance:   sol,
		Symbol:    "SOL",
		Formatted: fmt.Sprintf("%.4f SOL", sol),
	}

	if h.Tokens != nil {
		tokens, err := h.Tokens.TokenBalances(r.Context(), wallet)
		if err != nil {
			// Token balances are best-effort; the native balance still serves.
			slog.Warn("failed to resolve token balances", "wallet", wallet, "error", err)
		}
		for _, t := range tokens {
			balances[t.Symbol] = api.TokenBalance{
				Balance:   t.Balance,
				Symbol:    t.Symbol,
				Formatted: t.Formatted,
			}
		}
	}

	writeJSON(w, http.StatusOK, api.BalancesResponse{Wallet: wallet, Balances: balances})
}

// GetAggregatedYields handles GET /api/aggregator/yields.
func (h *Handler) GetAggregatedYields(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = h.Token
	}

	opportunities := h.Aggregator.AggregatedYields(r.Context(), token)

	writeJSON(w, http.StatusOK, api.AggregatedYieldsResponse{
		Yields:    mapping.ToApiYieldOpportunities(opportunities),
		Token:     token,
		Timestamp: time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.Error{Error: message})
}
