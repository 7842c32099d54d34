// Package payments drives a spend request end to end: affordability against
// spendable yield, ledger bookkeeping, and facilitator verify/settle. Side
// effects are strictly ordered: settlement is never attempted without a
// prior successful verification of the same payload/requirements pair.
package payments

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/max-de-bug/portion-app-sub001/pkg/audit"
	"github.com/max-de-bug/portion-app-sub001/pkg/chain"
	"github.com/max-de-bug/portion-app-sub001/pkg/facilitator"
	"github.com/max-de-bug/portion-app-sub001/pkg/ledger"
	"github.com/max-de-bug/portion-app-sub001/pkg/models"
	"github.com/max-de-bug/portion-app-sub001/pkg/yield"
)

// SpendCurrency is the display currency for charged amounts.
const SpendCurrency = "USDV"

// preparedTTL bounds how long a prepared payment stays redeemable.
const preparedTTL = 10 * time.Minute

// PreparedPayment is an issued payment challenge awaiting execution.
type PreparedPayment struct {
	ID           uuid.UUID
	ServiceID    string
	Wallet       string
	Amount       float64
	Requirements facilitator.PaymentRequirements
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Orchestrator composes the yield layer, the ledger, and the facilitator
// into the payment execution pipeline.
type Orchestrator struct {
	ledger    *ledger.Ledger
	audit     *audit.Store
	fac       facilitator.Interface
	positions yield.PositionProvider
	catalog   *Catalog

	payTo   string
	network string
	asset   string

	now func() time.Time

	mu       sync.Mutex
	prepared map[uuid.UUID]PreparedPayment
}

// New creates an Orchestrator. payTo is the merchant's receiving address,
// network and asset identify where and in what the facilitator settles.
func New(l *ledger.Ledger, a *audit.Store, fac facilitator.Interface, positions yield.PositionProvider, catalog *Catalog, payTo, network, asset string) *Orchestrator {
	return &Orchestrator{
		ledger:    l,
		audit:     a,
		fac:       fac,
		positions: positions,
		catalog:   catalog,
		payTo:     payTo,
		network:   network,
		asset:     asset,
		now:       time.Now,
		prepared:  make(map[uuid.UUID]PreparedPayment),
	}
}

// Catalog exposes the service catalog.
func (o *Orchestrator) Catalog() *Catalog { return o.catalog }

// Prepare issues a payment challenge for the service: a payment id plus the
// x402 requirements the payer's wallet must satisfy.
func (o *Orchestrator) Prepare(ctx context.Context, wallet, serviceID string) (*PreparedPayment, error) {
	if _, err := chain.ValidateAddress(wallet); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	svc, ok := o.catalog.ByID(serviceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, serviceID)
	}

	now := o.now()
	prep := PreparedPayment{
		ID:           uuid.New(),
		ServiceID:    svc.Id,
		Wallet:       wallet,
		Amount:       svc.Price,
		Requirements: o.Requirements(svc),
		CreatedAt:    now,
		ExpiresAt:    now.Add(preparedTTL),
	}

	o.mu.Lock()
	o.prepared[prep.ID] = prep
	o.mu.Unlock()

	return &prep, nil
}

// Prepared looks up a prepared payment, dropping it if expired.
func (o *Orchestrator) Prepared(id uuid.UUID) (*PreparedPayment, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	prep, ok := o.prepared[id]
	if !ok {
		return nil, false
	}
	if o.now().After(prep.ExpiresAt) {
		delete(o.prepared, id)
		return nil, false
	}
	return &prep, true
}

// consume removes a prepared payment once execution begins.
func (o *Orchestrator) consume(id uuid.UUID) {
	o.mu.Lock()
	delete(o.prepared, id)
	o.mu.Unlock()
}

// ExecutePayment spends accrued yield on the named service. On success the
// returned transaction is SETTLED; on facilitator failure it is FAILED and
// stays visible in the ledger. Rejections (invalid input, insufficient
// yield) happen before any ledger entry is created.
func (o *Orchestrator) ExecutePayment(ctx context.Context, wallet, serviceID string, amount float64) (models.Transaction, error) {
	if _, err := chain.ValidateAddress(wallet); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return models.Transaction{}, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	svc, ok := o.catalog.ByID(serviceID)
	if !ok {
		return models.Transaction{}, fmt.Errorf("%w: %s", ErrUnknownService, serviceID)
	}

	snapshot, err := o.positions.SpendableYield(ctx, wallet)
	if err != nil {
		o.audit.Record(ctx, "payment.rejected",
			fmt.Sprintf("yield resolution failed for %s: %v", wallet, err),
			models.AuditError, models.CategoryTransaction)
		return models.Transaction{}, fmt.Errorf("failed to resolve spendable yield: %w", err)
	}
	if amount > snapshot.SpendableYield {
		o.audit.Record(ctx, "payment.rejected",
			fmt.Sprintf("%s requested %.2f with %.2f spendable", wallet, amount, snapshot.SpendableYield),
			models.AuditInfo, models.CategoryTransaction)
		return models.Transaction{}, fmt.Errorf("%w: requested %.2f, spendable %.2f",
			ErrInsufficientYield, amount, snapshot.SpendableYield)
	}

	tx := o.ledger.Add(ctx, models.Transaction{
		Service: svc.Id,
		Type:    svc.Type,
		Amount:  models.FormatAmount(amount, SpendCurrency),
		Source:  topSource(snapshot),
	})

	payload := o.payload(wallet, amount, snapshot)
	requirements := o.Requirements(svc)

	verification, err := o.fac.Verify(ctx, payload, requirements)
	if err != nil {
		return o.fail(ctx, tx, err)
	}
	if !verification.IsValid {
		return o.fail(ctx, tx, &VerificationError{Reason: verification.InvalidReason})
	}

	settlement, err := o.fac.Settle(ctx, payload, requirements)
	if err != nil {
		return o.fail(ctx, tx, err)
	}
	if !settlement.Success {
		return o.fail(ctx, tx, &SettlementError{Reason: settlement.ErrorReason})
	}

	// Short-circuits the ledger's automatic timed progression.
	o.ledger.UpdateStatus(ctx, tx.Id, models.SETTLED)
	tx.Status = models.SETTLED

	o.audit.Record(ctx, "payment.settled",
		fmt.Sprintf("%s paid %s for %s (tx %s)", wallet, tx.Amount, svc.Id, settlement.Transaction),
		models.AuditSuccess, models.CategoryTransaction)
	slog.Info("payment settled", "wallet", wallet, "service", svc.Id, "amount", tx.Amount)

	return tx, nil
}

// ExecutePrepared redeems a prepared payment and runs the pipeline.
func (o *Orchestrator) ExecutePrepared(ctx context.Context, id uuid.UUID, wallet string) (models.Transaction, error) {
	prep, ok := o.Prepared(id)
	if !ok {
		return models.Transaction{}, ErrPaymentNotPrepared
	}
	if prep.Wallet != wallet {
		return models.Transaction{}, fmt.Errorf("%w: wallet does not match prepared payment", ErrInvalidRequest)
	}
	o.consume(id)
	return o.ExecutePayment(ctx, wallet, prep.ServiceID, prep.Amount)
}

// fail transitions the ledger entry to FAILED, records the audit event, and
// surfaces the error.
func (o *Orchestrator) fail(ctx context.Context, tx models.Transaction, cause error) (models.Transaction, error) {
	o.ledger.UpdateStatus(ctx, tx.Id, models.FAILED)
	tx.Status = models.FAILED

	o.audit.Record(ctx, "payment.failed",
		fmt.Sprintf("%s for %s: %v", tx.Amount, tx.Service, cause),
		models.AuditError, models.CategoryTransaction)
	slog.Error("payment failed", "transaction", tx.Id, "service", tx.Service, "error", cause)

	return tx, cause
}

// Requirements builds the x402 requirements for a catalog service. Amounts
// are quoted in the asset's atomic units (6 decimals).
func (o *Orchestrator) Requirements(svc models.Service) facilitator.PaymentRequirements {
	return facilitator.PaymentRequirements{
		Scheme:            "exact",
		Network:           o.network,
		MaxAmountRequired: strconv.FormatInt(int64(math.Round(svc.Price*1e6)), 10),
		Resource:          "portion://services/" + svc.Id,
		Description:       svc.Description,
		MimeType:          "application/json",
		PayTo:             o.payTo,
		MaxTimeoutSeconds: 60,
		Asset:             o.asset,
	}
}

func (o *Orchestrator) payload(wallet string, amount float64, snapshot *models.YieldSnapshot) facilitator.PaymentPayload {
	return facilitator.PaymentPayload{
		X402Version: facilitator.X402Version,
		Scheme:      "exact",
		Network:     o.network,
		Payload: map[string]interface{}{
			"from":        wallet,
			"amount":      strconv.FormatInt(int64(math.Round(amount*1e6)), 10),
			"yieldSource": topSource(snapshot),
		},
	}
}

// topSource names the largest contributor to the spendable yield.
func topSource(snapshot *models.YieldSnapshot) string {
	source := "staking yield"
	best := -1.0
	for _, b := range snapshot.Breakdown {
		if b.Amount > best {
			best = b.Amount
			source = b.Source
		}
	}
	return source
}
