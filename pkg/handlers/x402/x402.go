// Package x402 serves the pay-per-call surface: the service catalog, the
// prepare/execute payment flow, and demo-mode yield lookups.
package x402

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/max-de-bug/portion-app-sub001/pkg/api"
	"github.com/max-de-bug/portion-app-sub001/pkg/facilitator"
	"github.com/max-de-bug/portion-app-sub001/pkg/mapping"
	"github.com/max-de-bug/portion-app-sub001/pkg/payments"
	"github.com/max-de-bug/portion-app-sub001/pkg/yield"
)

// demoSpendable is the fixed spendable yield served when a client asks for
// demo mode explicitly.
const demoSpendable = 12.5

// Handler holds the dependencies for x402 handlers.
type Handler struct {
	Orchestrator *payments.Orchestrator
	Positions    yield.PositionProvider
	Network      string
}

// NewHandler creates a new Handler.
func NewHandler(orchestrator *payments.Orchestrator, positions yield.PositionProvider, network string) *Handler {
	return &Handler{Orchestrator: orchestrator, Positions: positions, Network: network}
}

// ListServices handles GET /x402/services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services := h.Orchestrator.Catalog().Services()

	apiServices := make([]api.Service, len(services))
	for i := range services {
		apiServices[i] = *mapping.ToApiService(&services[i])
	}

	writeJSON(w, http.StatusOK, api.ServicesResponse{Services: apiServices})
}

// GetYield handles GET /x402/yield/{wallet}. With ?demo=true the spendable
// yield is a fixed demo figure instead of a live position lookup.
func (h *Handler) GetYield(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")
	if len(wallet) < 32 {
		writeError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}

	provider := h.Positions
	if demo, _ := strconv.ParseBool(r.URL.Query().Get("demo")); demo {
		provider = &yield.DemoPositions{Amount: demoSpendable}
	}

	snapshot, err := provider.SpendableYield(r.Context(), wallet)
	if err != nil {
		slog.Error("failed to resolve spendable yield", "wallet", wallet, "error", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to resolve yield: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, mapping.ToApiYieldSnapshot(snapshot, 0))
}

// PrepareRequest is the body of POST /x402/prepare/{serviceId}.
type PrepareRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// Prepare handles POST /x402/prepare/{serviceId}. It issues a payment id
// the client redeems on execute.
func (h *Handler) Prepare(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "serviceId")

	var req PrepareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	prep, err := h.Orchestrator.Prepare(r.Context(), req.WalletAddress, serviceID)
	if err != nil {
		h.writePaymentError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.PrepareResponse{
		PaymentId:   prep.ID,
		ServiceId:   prep.ServiceID,
		Amount:      prep.Amount,
		PayTo:       prep.Requirements.PayTo,
		Network:     prep.Requirements.Network,
		ExpiresAt:   prep.ExpiresAt,
		X402Version: facilitator.X402Version,
	})
}

// Execute handles POST /x402/execute/{serviceId}. Requests without a
// prepared payment id receive a 402 challenge listing the requirements.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "serviceId")

	var req api.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.WalletAddress == "" {
		writeError(w, http.StatusBadRequest, "walletAddress is required")
		return
	}

	if req.PaymentId == nil {
		h.writeChallenge(w, serviceID)
		return
	}

	tx, err := h.Orchestrator.ExecutePrepared(r.Context(), *req.PaymentId, req.WalletAddress)
	if err != nil {
		if errors.Is(err, payments.ErrPaymentNotPrepared) {
			h.writeChallenge(w, serviceID)
			return
		}
		h.writePaymentError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.ExecuteResponse{
		Transaction: *mapping.ToApiTransaction(&tx),
		Output:      fmt.Sprintf("Processed %q via %s", req.Input, serviceID),
	})
}

// writeChallenge responds 402 with the x402 requirements for the service.
func (h *Handler) writeChallenge(w http.ResponseWriter, serviceID string) {
	svc, ok := h.Orchestrator.Catalog().ByID(serviceID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown service: %s", serviceID))
		return
	}

	writeJSON(w, http.StatusPaymentRequired, map[string]interface{}{
		"x402Version": facilitator.X402Version,
		"error":       "payment required",
		"accepts":     []facilitator.PaymentRequirements{h.Orchestrator.Requirements(svc)},
	})
}

// writePaymentError maps pipeline errors onto HTTP statuses.
func (h *Handler) writePaymentError(w http.ResponseWriter, err error) {
	var verr *payments.VerificationError
	var serr *payments.SettlementError
	var ferr *facilitator.Error

	switch {
	case errors.Is(err, payments.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, payments.ErrUnknownService):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, payments.ErrInsufficientYield):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.As(err, &verr):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.As(err, &serr), errors.As(err, &ferr):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
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
