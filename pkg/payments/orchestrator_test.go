package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/max-de-bug/portion-app-sub001/pkg/audit"
	"github.com/max-de-bug/portion-app-sub001/pkg/facilitator"
	facilitator_mocks "github.com/max-de-bug/portion-app-sub001/pkg/facilitator/mocks"
	"github.com/max-de-bug/portion-app-sub001/pkg/ledger"
	"github.com/max-de-bug/portion-app-sub001/pkg/models"
)

const testWallet = "11111111111111111111111111111111"

// stubPositions serves a fixed spendable yield.
type stubPositions struct {
	spendable float64
	err       error
}

func (s *stubPositions) SpendableYield(ctx context.Context, wallet string) (*models.YieldSnapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.YieldSnapshot{
		Wallet:         wallet,
		SpendableYield: s.spendable,
		Breakdown: []models.YieldSourceAmount{
			{Source: "Staking Vault", Amount: s.spendable},
		},
	}, nil
}

func newTestOrchestrator(fac facilitator.Interface, spendable float64) *Orchestrator {
	return New(
		ledger.New(nil, nil, nil),
		audit.New(nil),
		fac,
		&stubPositions{spendable: spendable},
		DefaultCatalog(),
		"BXVyRduVD7YQBibCrfDr2wGCoVEpaBcvMpLpe3Wgb3Mp",
		"solana",
		"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	)
}

func TestExecutePayment(t *testing.T) {
	t.Run("Settles End To End", func(t *testing.T) {
		// 1. Setup
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		// 2. Mock expectations
		mockFac.On("Verify", mock.Anything, mock.AnythingOfType("facilitator.PaymentPayload"), mock.AnythingOfType("facilitator.PaymentRequirements")).
			Return(&facilitator.VerifyResponse{IsValid: true, Payer: testWallet}, nil)
		mockFac.On("Settle", mock.Anything, mock.AnythingOfType("facilitator.PaymentPayload"), mock.AnythingOfType("facilitator.PaymentRequirements")).
			Return(&facilitator.SettleResponse{Success: true, Transaction: "sig"}, nil)

		// 3. Execute
		tx, err := o.ExecutePayment(context.Background(), testWallet, "ai-summarize", 5.0)

		// 4. Assert
		require.NoError(t, err)
		assert.Equal(t, models.SETTLED, tx.Status)
		assert.Equal(t, "5.00 USDV", tx.Amount)
		assert.Equal(t, "ai-summarize", tx.Service)

		stored, ok := o.ledger.Get(tx.Id)
		require.True(t, ok)
		assert.Equal(t, models.SETTLED, stored.Status)
		mockFac.AssertExpectations(t)
	})

	t.Run("Insufficient Yield Creates No Ledger Entry", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		_, err := o.ExecutePayment(context.Background(), testWallet, "ai-summarize", 50.0)

		assert.ErrorIs(t, err, ErrInsufficientYield)
		assert.Empty(t, o.ledger.Transactions(), "a rejected payment must leave no trace in the ledger")
		mockFac.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Invalid Wallet", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		_, err := o.ExecutePayment(context.Background(), "0xdeadbeef", "ai-summarize", 1.0)

		assert.ErrorIs(t, err, ErrInvalidRequest)
		assert.Empty(t, o.ledger.Transactions())
	})

	t.Run("Non Positive Amount", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		_, err := o.ExecutePayment(context.Background(), testWallet, "ai-summarize", 0)

		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("Unknown Service", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		_, err := o.ExecutePayment(context.Background(), testWallet, "no-such-service", 1.0)

		assert.ErrorIs(t, err, ErrUnknownService)
	})

	t.Run("Verification Rejection Fails The Transaction", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		mockFac.On("Verify", mock.Anything, mock.Anything, mock.Anything).
			Return(&facilitator.VerifyResponse{IsValid: false, InvalidReason: "bad_signature"}, nil)

		tx, err := o.ExecutePayment(context.Background(), testWallet, "ai-summarize", 5.0)

		var verr *VerificationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "bad_signature", verr.Reason)
		assert.Equal(t, models.FAILED, tx.Status)

		// The failed attempt stays visible.
		stored, ok := o.ledger.Get(tx.Id)
		require.True(t, ok)
		assert.Equal(t, models.FAILED, stored.Status)
		// Settlement is never attempted without verification.
		mockFac.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Verify Transport Error Propagates Unchanged", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		facErr := &facilitator.Error{Stage: facilitator.StageVerify, Err: errors.New("connection refused")}
		mockFac.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(nil, facErr)

		tx, err := o.ExecutePayment(context.Background(), testWallet, "ai-summarize", 5.0)

		assert.Equal(t, facErr, err)
		assert.Equal(t, models.FAILED, tx.Status)
		mockFac.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Settlement Rejection Fails The Transaction", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		mockFac.On("Verify", mock.Anything, mock.Anything, mock.Anything).
			Return(&facilitator.VerifyResponse{IsValid: true}, nil)
		mockFac.On("Settle", mock.Anything, mock.Anything, mock.Anything).
			Return(&facilitator.SettleResponse{Success: false, ErrorReason: "expired_authorization"}, nil)

		tx, err := o.ExecutePayment(context.Background(), testWallet, "ai-summarize", 5.0)

		var serr *SettlementError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, models.FAILED, tx.Status)
	})

	t.Run("Position Lookup Failure Creates No Ledger Entry", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)
		o.positions = &stubPositions{err: errors.New("vault api down")}

		_, err := o.ExecutePayment(context.Background(), testWallet, "ai-summarize", 5.0)

		assert.Error(t, err)
		assert.Empty(t, o.ledger.Transactions())
	})
}

func TestPrepare(t *testing.T) {
	t.Run("Issues A Redeemable Payment", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		prep, err := o.Prepare(context.Background(), testWallet, "ai-summarize")

		require.NoError(t, err)
		assert.Equal(t, "ai-summarize", prep.ServiceID)
		assert.Equal(t, 0.05, prep.Amount)
		assert.Equal(t, "exact", prep.Requirements.Scheme)
		assert.True(t, prep.ExpiresAt.After(prep.CreatedAt))

		got, ok := o.Prepared(prep.ID)
		require.True(t, ok)
		assert.Equal(t, prep.ID, got.ID)
	})

	t.Run("Expired Preparation Is Dropped", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		prep, err := o.Prepare(context.Background(), testWallet, "ai-summarize")
		require.NoError(t, err)

		o.now = func() time.Time { return prep.ExpiresAt.Add(time.Second) }

		_, ok := o.Prepared(prep.ID)
		assert.False(t, ok)
	})

	t.Run("Unknown Service", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		_, err := o.Prepare(context.Background(), testWallet, "no-such-service")

		assert.ErrorIs(t, err, ErrUnknownService)
	})
}

func TestExecutePrepared(t *testing.T) {
	t.Run("Redeems And Settles", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		mockFac.On("Verify", mock.Anything, mock.Anything, mock.Anything).
			Return(&facilitator.VerifyResponse{IsValid: true}, nil)
		mockFac.On("Settle", mock.Anything, mock.Anything, mock.Anything).
			Return(&facilitator.SettleResponse{Success: true}, nil)

		prep, err := o.Prepare(context.Background(), testWallet, "ai-summarize")
		require.NoError(t, err)

		tx, err := o.ExecutePrepared(context.Background(), prep.ID, testWallet)

		require.NoError(t, err)
		assert.Equal(t, models.SETTLED, tx.Status)

		// A prepared payment is single-use.
		_, err = o.ExecutePrepared(context.Background(), prep.ID, testWallet)
		assert.ErrorIs(t, err, ErrPaymentNotPrepared)
	})

	t.Run("Unknown Payment ID", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		_, err := o.ExecutePrepared(context.Background(), uuid.New(), testWallet)

		assert.ErrorIs(t, err, ErrPaymentNotPrepared)
	})

	t.Run("Wallet Mismatch", func(t *testing.T) {
		mockFac := new(facilitator_mocks.Interface)
		o := newTestOrchestrator(mockFac, 10.0)

		prep, err := o.Prepare(context.Background(), testWallet, "ai-summarize")
		require.NoError(t, err)

		_, err = o.ExecutePrepared(context.Background(), prep.ID, "So11111111111111111111111111111111111111112")

		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}
