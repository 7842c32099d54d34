package facilitator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultFacilitatorURL is used when no facilitator endpoint is configured.
const DefaultFacilitatorURL = "https://x402.org/facilitator"

// Stage names the facilitator operation that failed.
type Stage string

const (
	StageVerify Stage = "verify"
	StageSettle Stage = "settle"
)

// Error wraps a facilitator failure with the stage it happened in. The
// underlying error is propagated unchanged. Retry policy belongs to the
// orchestrator, not here.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("facilitator %s failed: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client calls an x402 facilitator's verify and settle endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given facilitator endpoint, falling back to
// DefaultFacilitatorURL when empty.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultFacilitatorURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Make sure we conform to the interface
var _ Interface = (*Client)(nil)

// Verify asks the facilitator to verify the payment payload against the
// requirements without executing it.
func (c *Client) Verify(ctx context.Context, payload PaymentPayload, requirements PaymentRequirements) (*VerifyResponse, error) {
	req := VerifyRequest{
		X402Version:         X402Version,
		PaymentPayload:      payload,
		PaymentRequirements: requirements,
	}

	var resp VerifyResponse
	if err := c.post(ctx, "/verify", req, &resp); err != nil {
		slog.Error("facilitator verify failed", "error", err)
		return nil, &Error{Stage: StageVerify, Err: err}
	}
	return &resp, nil
}

// Settle asks the facilitator to execute a verified payment.
func (c *Client) Settle(ctx context.Context, payload PaymentPayload, requirements PaymentRequirements) (*SettleResponse, error) {
	req := SettleRequest{
		X402Version:         X402Version,
		PaymentPayload:      payload,
		PaymentRequirements: requirements,
	}

	var resp SettleResponse
	if err := c.post(ctx, "/settle", req, &resp); err != nil {
		slog.Error("facilitator settle failed", "error", err)
		return nil, &Error{Stage: StageSettle, Err: err}
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
