package models

import (
	"fmt"
	"time"
)

// TransactionStatus defines the possible states of a payment transaction.
type TransactionStatus string

const (
	PROCESSING TransactionStatus = "PROCESSING"
	VALIDATED  TransactionStatus = "VALIDATED"
	SETTLED    TransactionStatus = "SETTLED"
	FAILED     TransactionStatus = "FAILED"
)

// Terminal reports whether the status admits no further transitions.
func (s TransactionStatus) Terminal() bool {
	return s == SETTLED || s == FAILED
}

// ServiceType classifies the kind of service a payment is for.
type ServiceType string

const (
	ServiceTypeAPI     ServiceType = "API"
	ServiceTypeSaaS    ServiceType = "SaaS"
	ServiceTypeCloud   ServiceType = "Cloud"
	ServiceTypeContent ServiceType = "Content"
	ServiceTypeOther   ServiceType = "Other"
)

// Transaction represents a single payment attempt funded by staking yield.
// It includes dynamodbav tags for marshalling.
type Transaction struct {
	Id        string            `json:"id" dynamodbav:"id"`
	Service   string            `json:"service" dynamodbav:"service"`
	Type      ServiceType       `json:"type" dynamodbav:"type"`
	Amount    string            `json:"amount" dynamodbav:"amount"`
	Status    TransactionStatus `json:"status" dynamodbav:"status"`
	Source    string            `json:"source" dynamodbav:"source"`
	Timestamp time.Time         `json:"timestamp" dynamodbav:"timestamp"`
	TTL       int64             `json:"-" dynamodbav:"ttl,omitempty"`
}

// AuditStatus is the outcome recorded on an audit event.
type AuditStatus string

const (
	AuditSuccess AuditStatus = "success"
	AuditError   AuditStatus = "error"
	AuditInfo    AuditStatus = "info"
)

// AuditCategory groups audit events by the subsystem they concern.
type AuditCategory string

const (
	CategoryPolicy      AuditCategory = "policy"
	CategoryTransaction AuditCategory = "transaction"
	CategoryWallet      AuditCategory = "wallet"
	CategoryMerchant    AuditCategory = "merchant"
	CategorySystem      AuditCategory = "system"
)

// AuditEvent records a policy- or transaction-relevant action.
type AuditEvent struct {
	Id        string        `json:"id" dynamodbav:"id"`
	Action    string        `json:"action" dynamodbav:"action"`
	Detail    string        `json:"detail" dynamodbav:"detail"`
	Status    AuditStatus   `json:"status" dynamodbav:"status"`
	Category  AuditCategory `json:"category" dynamodbav:"category"`
	Timestamp time.Time     `json:"timestamp" dynamodbav:"timestamp"`
	TTL       int64         `json:"-" dynamodbav:"ttl,omitempty"`
}

// YieldOpportunity is a normalized yield offer from one source.
type YieldOpportunity struct {
	Source string  `json:"source"`
	APY    float64 `json:"apy"`
	TVL    float64 `json:"tvl,omitempty"`
	Risk   string  `json:"risk,omitempty"`

	// Priority is the configured rank of the source, used as a stable
	// tie-break when two sources report the same rate.
	Priority int `json:"-"`
}

// TokenBalance is one token's balance for a wallet.
type TokenBalance struct {
	Symbol    string  `json:"symbol"`
	Balance   float64 `json:"balance"`
	Formatted string  `json:"formatted"`
}

// Service is a pay-per-call service in the x402 catalog.
type Service struct {
	Id          string      `json:"id"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Type        ServiceType `json:"type"`
	X402Enabled bool        `json:"x402Enabled"`
}

// YieldSourceAmount attributes part of a wallet's spendable yield to a source.
type YieldSourceAmount struct {
	Source string  `json:"source"`
	Amount float64 `json:"amount"`
}

// YieldSnapshot is the spendable yield of a wallet at a point in time.
// It is always re-derived, never persisted.
type YieldSnapshot struct {
	Wallet         string              `json:"wallet"`
	SpendableYield float64             `json:"spendableYield"`
	AsOf           time.Time           `json:"asOf"`
	Breakdown      []YieldSourceAmount `json:"sourceBreakdown,omitempty"`
}

// FormatAmount renders an amount as the currency-qualified display string
// stored on transactions.
func FormatAmount(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

// RelativeTime renders a human-readable label for ts relative to now.
// The label is display-only and always recomputed from the timestamp.
func RelativeTime(ts, now time.Time) string {
	d := now.Sub(ts)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
