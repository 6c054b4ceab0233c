package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eventpay-xyz/go-eventpay/auth"
	"github.com/eventpay-xyz/go-eventpay/store"
	"github.com/eventpay-xyz/go-eventpay/token"
)

func TestUpdateEventFeeRate(t *testing.T) {
	ctx := context.Background()
	engine := New("eventpay-contract", store.NewMemoryStore(), token.NewMemLedger(), auth.AllowAll(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	require.NoError(t, engine.Initialize(ctx, "admin", 500, "token-contract"))
	eventID, err := engine.CreateEvent(ctx, "organizer-1", "Concert", nil)
	require.NoError(t, err)

	require.NoError(t, engine.updateEventFeeRate(ctx, eventID, 250))

	event, err := engine.GetEvent(ctx, eventID)
	require.NoError(t, err)
	require.Equal(t, uint32(250), event.FeeRate)

	err = engine.updateEventFeeRate(ctx, eventID, maxFeeRate+1)
	require.ErrorIs(t, err, ErrFeeRateTooHigh)

	err = engine.updateEventFeeRate(ctx, 999, 100)
	require.ErrorIs(t, err, ErrEventNotFound)
}
