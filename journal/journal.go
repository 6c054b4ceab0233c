// Package journal is the append-only record log the payment engine
// publishes to. Every successful state transition that outside observers
// care about — event creation, payment settlement — lands here as one
// record. Sinks are pluggable: a JSONL file for real deployments, memory
// for tests, discard when nobody is listening.
package journal

import (
	"context"
	"encoding/json"
	"time"

	sdkmath "cosmossdk.io/math"
)

// Record is a publishable journal record.
type Record interface {
	// Kind returns the record's type tag as written to the log.
	Kind() string
}

// EventCreated is published once per created event.
type EventCreated struct {
	EventID   uint64 `json:"event_id"`
	Name      string `json:"name"`
	Organizer string `json:"organizer"`
	FeeRate   uint32 `json:"fee_rate"`
}

// Kind implements Record.
func (EventCreated) Kind() string { return "event_created" }

// Payment is published once per settled payment. EventID is 0 for payments
// outside any event context.
type Payment struct {
	EventID   uint64      `json:"event_id"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	FeePayer  string      `json:"fee_payer"`
	Amount    sdkmath.Int `json:"amount"`
	FeeAmount sdkmath.Int `json:"fee_amount"`
	FeeRate   uint32      `json:"fee_rate"`
}

// Kind implements Record.
func (Payment) Kind() string { return "payment" }

// Entry is a record as it appears in the log: the record payload wrapped
// with an id, its kind, and the publication timestamp.
type Entry struct {
	ID   string          `json:"id"`
	Kind string          `json:"kind"`
	At   time.Time       `json:"at"`
	Data json.RawMessage `json:"data"`
}

// Sink accepts published records.
type Sink interface {
	// Publish appends one record to the log.
	Publish(ctx context.Context, record Record) error

	// Close flushes and releases the sink.
	Close() error
}

type discard struct{}

func (discard) Publish(context.Context, Record) error { return nil }
func (discard) Close() error                          { return nil }

// Discard returns a Sink that drops every record.
func Discard() Sink {
	return discard{}
}
