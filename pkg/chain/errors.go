package chain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAddress is returned when a wallet address is empty, uses a
// foreign-chain format, or is not valid base58.
var ErrInvalidAddress = errors.New("invalid wallet address")

// EndpointError records the failure of a single RPC endpoint during failover.
type EndpointError struct {
	Endpoint string
	Err      error
}

func (e EndpointError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e EndpointError) Unwrap() error { return e.Err }

// AllEndpointsError is returned when every endpoint in a network's pool
// failed. It carries the per-endpoint errors for diagnostics.
type AllEndpointsError struct {
	Network Network
	Errors  []EndpointError
}

func (e *AllEndpointsError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		parts[i] = ee.Error()
	}
	return fmt.Sprintf("all %s RPC endpoints unavailable: [%s]", e.Network, strings.Join(parts, "; "))
}
