package ledger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/eventpay-xyz/go-eventpay/auth"
	"github.com/eventpay-xyz/go-eventpay/journal"
	"github.com/eventpay-xyz/go-eventpay/ledger"
	"github.com/eventpay-xyz/go-eventpay/store"
	"github.com/eventpay-xyz/go-eventpay/token"
)

const (
	engineAddr = "eventpay-contract"
	adminAddr  = "admin"
	tokenAddr  = "token-contract"
)

// fixture wires an engine to in-memory collaborators. The oracle allows
// every identity, mirroring the mocked-auth environment the engine's host
// normally provides; authorization gating has its own dedicated test.
type fixture struct {
	ctx    context.Context
	clock  *clockwork.FakeClock
	store  *store.MemoryStore
	bank   *token.MemLedger
	sink   *journal.MemorySink
	engine *ledger.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClock()
	st := store.NewMemoryStore()
	bank := token.NewMemLedger(token.WithClock(clock))
	sink := journal.NewMemorySinkWithClock(clock)
	engine := ledger.New(engineAddr, st, bank, auth.AllowAll(),
		ledger.WithClock(clock),
		ledger.WithJournal(sink),
		ledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return &fixture{
		ctx:    context.Background(),
		clock:  clock,
		store:  st,
		bank:   bank,
		sink:   sink,
		engine: engine,
	}
}

// initialize sets up the contract with a 5% default fee rate.
func (f *fixture) initialize(t *testing.T) {
	t.Helper()
	require.NoError(t, f.engine.Initialize(f.ctx, adminAddr, 500, tokenAddr))
}

func (f *fixture) balance(t *testing.T, addr string) sdkmath.Int {
	t.Helper()
	b, err := f.bank.Balance(f.ctx, addr)
	require.NoError(t, err)
	return b
}

func ratePtr(rate uint32) *uint32 {
	return &rate
}

func TestInitialize(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	cfg, err := f.engine.GetConfig(f.ctx, adminAddr)
	require.NoError(t, err)
	require.Equal(t, adminAddr, cfg.Admin)
	require.Equal(t, uint32(500), cfg.DefaultFeeRate)
	require.Equal(t, uint64(1), cfg.NextEventID)
	require.Equal(t, tokenAddr, cfg.TokenAddress)
}

func TestInitializeTwiceFails(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	err := f.engine.Initialize(f.ctx, "other-admin", 100, tokenAddr)
	require.ErrorIs(t, err, ledger.ErrAlreadyInitialized)

	// Original configuration is untouched.
	cfg, err := f.engine.GetConfig(f.ctx, adminAddr)
	require.NoError(t, err)
	require.Equal(t, uint32(500), cfg.DefaultFeeRate)
	require.Equal(t, adminAddr, cfg.Admin)
}

func TestInitializeRejectsExcessiveFeeRate(t *testing.T) {
	f := newFixture(t)
	err := f.engine.Initialize(f.ctx, adminAddr, 1001, tokenAddr)
	require.ErrorIs(t, err, ledger.ErrFeeRateTooHigh)

	// Exactly 10% is allowed.
	require.NoError(t, f.engine.Initialize(f.ctx, adminAddr, 1000, tokenAddr))
}

func TestGetConfigRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	_, err := f.engine.GetConfig(f.ctx, "not-the-admin")
	require.ErrorIs(t, err, ledger.ErrNotAdmin)
}

func TestGetConfigBeforeInitialize(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.GetConfig(f.ctx, adminAddr)
	require.ErrorIs(t, err, ledger.ErrNotInitialized)
}

func TestUpdateDefaultFeeRate(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	require.NoError(t, f.engine.UpdateDefaultFeeRate(f.ctx, adminAddr, 400))

	cfg, err := f.engine.GetConfig(f.ctx, adminAddr)
	require.NoError(t, err)
	require.Equal(t, uint32(400), cfg.DefaultFeeRate)

	require.ErrorIs(t, f.engine.UpdateDefaultFeeRate(f.ctx, adminAddr, 1001), ledger.ErrFeeRateTooHigh)
	require.ErrorIs(t, f.engine.UpdateDefaultFeeRate(f.ctx, "mallory", 100), ledger.ErrNotAdmin)
}

func TestAuthorizationGating(t *testing.T) {
	// Real oracle wiring: identities must be on the call's signer set.
	clock := clockwork.NewFakeClock()
	st := store.NewMemoryStore()
	bank := token.NewMemLedger(token.WithClock(clock))
	engine := ledger.New(engineAddr, st, bank, auth.FromContext(),
		ledger.WithClock(clock),
		ledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	bare := context.Background()
	adminCtx := auth.WithSigners(bare, adminAddr)
	organizerCtx := auth.WithSigners(bare, "organizer-1")

	// Unsigned calls fail at the oracle.
	require.ErrorIs(t, engine.Initialize(bare, adminAddr, 500, tokenAddr), auth.ErrNotAuthorized)
	require.NoError(t, engine.Initialize(adminCtx, adminAddr, 500, tokenAddr))

	// Organizer-signed event creation succeeds; admin cannot sign for the
	// organizer.
	_, err := engine.CreateEvent(adminCtx, "organizer-1", "Gated", nil)
	require.ErrorIs(t, err, auth.ErrNotAuthorized)
	eventID, err := engine.CreateEvent(organizerCtx, "organizer-1", "Gated", nil)
	require.NoError(t, err)

	// Registration is organizer-authorized, not wallet-authorized.
	walletCtx := auth.WithSigners(bare, "wallet-1")
	require.ErrorIs(t, engine.RegisterWalletForEvent(walletCtx, eventID, "wallet-1"), auth.ErrNotAuthorized)
	require.NoError(t, engine.RegisterWalletForEvent(organizerCtx, eventID, "wallet-1"))
}
