package payments

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned for malformed spend requests, rejected
// before any I/O.
var ErrInvalidRequest = errors.New("invalid payment request")

// ErrInsufficientYield is returned when the requested amount exceeds the
// wallet's spendable yield. Principal is never eligible.
var ErrInsufficientYield = errors.New("insufficient spendable yield")

// ErrUnknownService is returned when the service id is not in the catalog.
var ErrUnknownService = errors.New("unknown service")

// ErrPaymentNotPrepared is returned when execution references a payment
// that was never prepared or has expired.
var ErrPaymentNotPrepared = errors.New("payment not prepared")

// VerificationError means the facilitator rejected the payment payload.
type VerificationError struct {
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("payment verification failed: %s", e.Reason)
}

// SettlementError means the facilitator could not settle a verified payment.
type SettlementError struct {
	Reason string
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("payment settlement failed: %s", e.Reason)
}
