package journal_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/eventpay-xyz/go-eventpay/journal"
)

func TestJSONLRoundTrip(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	sink := journal.NewJSONLSink(&buf)

	require.NoError(t, sink.Publish(ctx, journal.EventCreated{
		EventID:   1,
		Name:      "Rock Festival 2024",
		Organizer: "organizer-1",
		FeeRate:   500,
	}))
	require.NoError(t, sink.Publish(ctx, journal.Payment{
		EventID:   1,
		From:      "sender",
		To:        "receiver",
		FeePayer:  "organizer-1",
		Amount:    sdkmath.NewInt(200),
		FeeAmount: sdkmath.NewInt(10),
		FeeRate:   500,
	}))
	require.NoError(t, sink.Close())

	entries, err := journal.ReadJSONL(&buf)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "event_created", entries[0].Kind)
	require.NotEmpty(t, entries[0].ID)
	require.False(t, entries[0].At.IsZero())

	var created journal.EventCreated
	require.NoError(t, json.Unmarshal(entries[0].Data, &created))
	require.Equal(t, uint64(1), created.EventID)
	require.Equal(t, "Rock Festival 2024", created.Name)

	require.Equal(t, "payment", entries[1].Kind)
	var payment journal.Payment
	require.NoError(t, json.Unmarshal(entries[1].Data, &payment))
	require.Equal(t, sdkmath.NewInt(200), payment.Amount)
	require.Equal(t, sdkmath.NewInt(10), payment.FeeAmount)
	require.Equal(t, "organizer-1", payment.FeePayer)
}

func TestJSONLFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	sink, err := journal.OpenJSONLFile(path)
	require.NoError(t, err)
	require.NoError(t, sink.Publish(ctx, journal.EventCreated{EventID: 7, Name: "Jazz Night", Organizer: "org", FeeRate: 30}))
	require.NoError(t, sink.Close())

	// Appending across reopen keeps earlier entries.
	sink, err = journal.OpenJSONLFile(path)
	require.NoError(t, err)
	require.NoError(t, sink.Publish(ctx, journal.EventCreated{EventID: 8, Name: "Encore", Organizer: "org", FeeRate: 30}))
	require.NoError(t, sink.Close())

	entries, err := journal.ReadJSONLFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "event_created", entries[0].Kind)
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()
	sink := journal.NewMemorySink()

	require.NoError(t, sink.Publish(ctx, journal.Payment{
		From:      "a",
		To:        "b",
		FeePayer:  "c",
		Amount:    sdkmath.NewInt(250),
		FeeAmount: sdkmath.NewInt(10),
		FeeRate:   400,
	}))

	entries := sink.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "payment", entries[0].Kind)
}

func TestDiscard(t *testing.T) {
	sink := journal.Discard()
	require.NoError(t, sink.Publish(context.Background(), journal.EventCreated{}))
	require.NoError(t, sink.Close())
}
