// Package ledger implements the event payment engine: named events with
// organizer-controlled fee rates, per-event wallet registration gating
// payments, fee accounting in basis points, and settlement against an
// external fungible-token ledger.
//
// The engine owns no state of its own beyond its collaborators: a
// namespaced persistent store, the token ledger, an authorization oracle,
// and an append-only journal. Calls are processed one at a time by the
// hosting environment; correctness rests on within-call ordering — every
// operation completes all of its validation and token-ledger calls before
// its first store write, so a failure partway through leaves stored state
// untouched.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/eventpay-xyz/go-eventpay/auth"
	"github.com/eventpay-xyz/go-eventpay/journal"
	"github.com/eventpay-xyz/go-eventpay/store"
	"github.com/eventpay-xyz/go-eventpay/token"
)

// Engine is the event payment engine. The addr passed to New is the
// engine's own identity on the token ledger: the counterparty that holds
// amounts in flight and accumulated fees, and the spender of standing fee
// allowances.
type Engine struct {
	addr    string
	store   store.Store
	token   token.Ledger
	oracle  auth.Authorizer
	journal journal.Sink
	clock   clockwork.Clock
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for event timestamps and allowance
// horizons. Defaults to the real clock.
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithJournal sets the record sink. Defaults to discarding records.
func WithJournal(sink journal.Sink) Option {
	return func(e *Engine) {
		e.journal = sink
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine settling against tok, persisting to st, and
// consulting oracle before acting on any identity's behalf.
func New(addr string, st store.Store, tok token.Ledger, oracle auth.Authorizer, opts ...Option) *Engine {
	e := &Engine{
		addr:    addr,
		store:   st,
		token:   tok,
		oracle:  oracle,
		journal: journal.Discard(),
		clock:   clockwork.NewRealClock(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Address returns the engine's own identity on the token ledger.
func (e *Engine) Address() string {
	return e.addr
}

// getJSON loads and decodes a stored record. The boolean reports presence.
func (e *Engine) getJSON(ctx context.Context, key store.Key, v any) (bool, error) {
	data, ok, err := e.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// putJSON encodes and stores a record.
func (e *Engine) putJSON(ctx context.Context, key store.Key, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := e.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// loadConfig returns the stored configuration or ErrNotInitialized.
func (e *Engine) loadConfig(ctx context.Context) (Config, error) {
	var cfg Config
	ok, err := e.getJSON(ctx, configKey(), &cfg)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Config{}, ErrNotInitialized
	}
	return cfg, nil
}

// loadEvent returns the stored event or ErrEventNotFound.
func (e *Engine) loadEvent(ctx context.Context, eventID uint64) (Event, error) {
	var ev Event
	ok, err := e.getJSON(ctx, eventKey(eventID), &ev)
	if err != nil {
		return Event{}, err
	}
	if !ok {
		return Event{}, fmt.Errorf("%w: id %d", ErrEventNotFound, eventID)
	}
	return ev, nil
}

// publish hands a record to the journal. Journal failures are logged, not
// surfaced: the state transition already settled and must not be reported
// as failed.
func (e *Engine) publish(ctx context.Context, record journal.Record) {
	if err := e.journal.Publish(ctx, record); err != nil {
		e.logger.Error("journal publish failed", "kind", record.Kind(), "error", err)
	}
}
