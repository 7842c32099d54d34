// Package api defines the JSON wire types served by the HTTP layer.
// The types mirror what the dashboard consumes; domain models are mapped
// into them by pkg/mapping.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Transaction is the client-visible record of a payment attempt.
type Transaction struct {
	Id        string    `json:"id"`
	Service   string    `json:"service"`
	Type      string    `json:"type"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Time      string    `json:"time"`
}

// AuditEvent is the client-visible audit record.
type AuditEvent struct {
	Id        string    `json:"id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	Status    string    `json:"status"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	Time      string    `json:"time"`
}

// APYResponse is the body of GET /api/apy.
type APYResponse struct {
	APY       float64   `json:"apy"`
	Protocol  string    `json:"protocol"`
	Token     string    `json:"token"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// YieldResponse is the body of GET /api/yield/{wallet} and
// GET /x402/yield/{wallet}.
type YieldResponse struct {
	Wallet         string              `json:"wallet"`
	SpendableYield float64             `json:"spendableYield"`
	APY            float64             `json:"apy"`
	AsOf           time.Time           `json:"asOf"`
	Breakdown      []YieldSourceAmount `json:"sourceBreakdown,omitempty"`
}

// YieldSourceAmount attributes spendable yield to one source.
type YieldSourceAmount struct {
	Source string  `json:"source"`
	Amount float64 `json:"amount"`
}

// TokenBalance is one entry of a BalancesResponse.
type TokenBalance struct {
	Balance   float64 `json:"balance"`
	Symbol    string  `json:"symbol"`
	Formatted string  `json:"formatted"`
}

// BalancesResponse is the body of GET /api/balances/{wallet}.
type BalancesResponse struct {
	Wallet   string                  `json:"wallet"`
	Balances map[string]TokenBalance `json:"balances"`
}

// YieldOpportunity is one ranked offer in an AggregatedYieldsResponse.
type YieldOpportunity struct {
	Source string  `json:"source"`
	APY    float64 `json:"apy"`
	TVL    float64 `json:"tvl,omitempty"`
	Risk   string  `json:"risk,omitempty"`
}

// AggregatedYieldsResponse is the body of GET /api/aggregator/yields.
type AggregatedYieldsResponse struct {
	Yields    []YieldOpportunity `json:"yields"`
	Token     string             `json:"token"`
	Timestamp time.Time          `json:"timestamp"`
}

// Service is one catalog entry of GET /x402/services.
type Service struct {
	Id          string  `json:"id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Type        string  `json:"type"`
	X402Enabled bool    `json:"x402Enabled"`
}

// ServicesResponse is the body of GET /x402/services.
type ServicesResponse struct {
	Services []Service `json:"services"`
}

// PrepareResponse is the body of POST /x402/prepare/{serviceId}.
type PrepareResponse struct {
	PaymentId    openapi_types.UUID `json:"paymentId"`
	ServiceId    string             `json:"serviceId"`
	Amount       float64            `json:"amount"`
	PayTo        string             `json:"payTo"`
	Network      string             `json:"network"`
	ExpiresAt    time.Time          `json:"expiresAt"`
	X402Version  int                `json:"x402Version"`
}

// ExecuteRequest is the body of POST /x402/execute/{serviceId}.
type ExecuteRequest struct {
	Input         string              `json:"input"`
	PaymentId     *openapi_types.UUID `json:"paymentId,omitempty"`
	WalletAddress string              `json:"walletAddress"`
}

// ExecuteResponse is the body of a successful POST /x402/execute/{serviceId}.
type ExecuteResponse struct {
	Transaction Transaction `json:"transaction"`
	Output      string      `json:"output"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// Error is the uniform error body.
type Error struct {
	Error string `json:"error"`
}
