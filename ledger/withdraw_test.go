package ledger_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/eventpay-xyz/go-eventpay/auth"
	"github.com/eventpay-xyz/go-eventpay/ledger"
	"github.com/eventpay-xyz/go-eventpay/store"
	"github.com/eventpay-xyz/go-eventpay/token"
)

func TestWithdrawEventFees(t *testing.T) {
	f := newFixture(t)
	eventID := setupEventPayment(t, f)

	require.NoError(t, f.engine.EventPayment(f.ctx, eventID, "sender", "receiver", sdkmath.NewInt(200)))

	// Withdrawal is gated on deactivation.
	_, err := f.engine.WithdrawEventFees(f.ctx, eventID)
	require.ErrorIs(t, err, ledger.ErrEventStillActive)

	require.NoError(t, f.engine.SetEventStatus(f.ctx, eventID, false))

	withdrawn, err := f.engine.WithdrawEventFees(f.ctx, eventID)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(10), withdrawn)
	require.Equal(t, sdkmath.NewInt(10), f.balance(t, "organizer-1"))

	// Accumulator is zeroed; a second withdrawal returns 0 without error.
	fees, err := f.engine.GetEventFees(f.ctx, eventID)
	require.NoError(t, err)
	require.True(t, fees.IsZero())

	withdrawn, err = f.engine.WithdrawEventFees(f.ctx, eventID)
	require.NoError(t, err)
	require.True(t, withdrawn.IsZero())
	require.Equal(t, sdkmath.NewInt(10), f.balance(t, "organizer-1"))
}

func TestWithdrawWithNoFees(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	eventID := f.createEvent(t, "organizer-1", "Quiet Event")
	require.NoError(t, f.engine.SetEventStatus(f.ctx, eventID, false))

	withdrawn, err := f.engine.WithdrawEventFees(f.ctx, eventID)
	require.NoError(t, err)
	require.True(t, withdrawn.IsZero())
}

func TestWithdrawUnknownEvent(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	_, err := f.engine.WithdrawEventFees(f.ctx, 999)
	require.ErrorIs(t, err, ledger.ErrEventNotFound)
}

// flakyLedger wraps a token ledger and fails transfers on demand.
type flakyLedger struct {
	token.Ledger
	failTransfer bool
}

var errLedgerOffline = errors.New("token ledger offline")

func (l *flakyLedger) Transfer(ctx context.Context, from, to string, amount sdkmath.Int) error {
	if l.failTransfer {
		return errLedgerOffline
	}
	return l.Ledger.Transfer(ctx, from, to, amount)
}

func TestWithdrawFailedTransferKeepsAccumulator(t *testing.T) {
	clock := clockwork.NewFakeClock()
	st := store.NewMemoryStore()
	bank := token.NewMemLedger(token.WithClock(clock))
	flaky := &flakyLedger{Ledger: bank}
	engine := ledger.New(engineAddr, st, flaky, auth.AllowAll(),
		ledger.WithClock(clock),
		ledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	ctx := context.Background()

	require.NoError(t, engine.Initialize(ctx, adminAddr, 500, tokenAddr))
	eventID, err := engine.CreateEvent(ctx, "organizer-1", "Concert", nil)
	require.NoError(t, err)
	require.NoError(t, engine.RegisterWalletForEvent(ctx, eventID, "sender"))
	require.NoError(t, engine.RegisterWalletForEvent(ctx, eventID, "receiver"))
	bank.Mint("sender", sdkmath.NewInt(1000))

	require.NoError(t, engine.EventPayment(ctx, eventID, "sender", "receiver", sdkmath.NewInt(200)))
	require.NoError(t, engine.SetEventStatus(ctx, eventID, false))

	// The payout transfer fails; the accumulator must stay claimable.
	flaky.failTransfer = true
	_, err = engine.WithdrawEventFees(ctx, eventID)
	require.ErrorIs(t, err, errLedgerOffline)

	fees, err := engine.GetEventFees(ctx, eventID)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(10), fees)

	// Retry succeeds once the ledger is back.
	flaky.failTransfer = false
	withdrawn, err := engine.WithdrawEventFees(ctx, eventID)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(10), withdrawn)

	fees, err = engine.GetEventFees(ctx, eventID)
	require.NoError(t, err)
	require.True(t, fees.IsZero())
}
