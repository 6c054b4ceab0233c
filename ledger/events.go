package ledger

import (
	"context"
	"fmt"
	"strconv"

	sdkmath "cosmossdk.io/math"

	"github.com/eventpay-xyz/go-eventpay/journal"
)

// CreateEvent creates a new event owned by organizer. Event names are
// globally unique forever: a name is never released, even after its event
// is deactivated. A nil feeRate adopts the configured default. Returns the
// assigned event id.
func (e *Engine) CreateEvent(ctx context.Context, organizer, name string, feeRate *uint32) (uint64, error) {
	if err := e.oracle.RequireAuthorized(ctx, organizer); err != nil {
		return 0, err
	}

	if len(name) > maxEventNameLen {
		return 0, ErrEventNameTooLong
	}

	taken, err := e.store.Has(ctx, eventNameKey(name))
	if err != nil {
		return 0, fmt.Errorf("check name: %w", err)
	}
	if taken {
		return 0, fmt.Errorf("%w: %q", ErrEventExists, name)
	}

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return 0, err
	}

	rate := cfg.DefaultFeeRate
	if feeRate != nil {
		rate = *feeRate
	}
	if rate > maxFeeRate {
		return 0, ErrFeeRateTooHigh
	}

	eventID := cfg.NextEventID
	event := Event{
		ID:          eventID,
		Name:        name,
		Organizer:   organizer,
		FeeRate:     rate,
		IsActive:    true,
		CreatedAt:   e.clock.Now().UTC(),
		TotalVolume: sdkmath.ZeroInt(),
	}

	if err := e.putJSON(ctx, eventKey(eventID), event); err != nil {
		return 0, err
	}
	if err := e.store.Set(ctx, eventNameKey(name), []byte(eventID10(eventID))); err != nil {
		return 0, fmt.Errorf("persist name index: %w", err)
	}
	cfg.NextEventID++
	if err := e.putJSON(ctx, configKey(), cfg); err != nil {
		return 0, err
	}

	e.publish(ctx, journal.EventCreated{
		EventID:   eventID,
		Name:      name,
		Organizer: organizer,
		FeeRate:   rate,
	})
	e.logger.Info("event created", "id", eventID, "name", name, "organizer", organizer, "fee_rate", rate)
	return eventID, nil
}

// CreateEventWithAllowance creates an event and, once creation has
// succeeded, grants the engine a standing allowance of maxAllowance from
// the organizer's tokens to cover event fees. Creation failure grants
// nothing.
func (e *Engine) CreateEventWithAllowance(ctx context.Context, organizer, name string, feeRate *uint32, maxAllowance sdkmath.Int) (uint64, error) {
	if !maxAllowance.IsPositive() {
		return 0, ErrAmountNotPositive
	}

	// CreateEvent performs the organizer authorization.
	eventID, err := e.CreateEvent(ctx, organizer, name, feeRate)
	if err != nil {
		return 0, err
	}

	expiresAt := e.clock.Now().Add(feeAuthorizationTTL)
	if err := e.token.Approve(ctx, organizer, e.addr, maxAllowance, expiresAt); err != nil {
		return 0, fmt.Errorf("grant allowance: %w", err)
	}
	return eventID, nil
}

// SetEventStatus activates or deactivates an event. Organizer only.
// Deactivation gates registration and payments and unlocks fee withdrawal.
func (e *Engine) SetEventStatus(ctx context.Context, eventID uint64, isActive bool) error {
	event, err := e.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if err := e.oracle.RequireAuthorized(ctx, event.Organizer); err != nil {
		return err
	}

	event.IsActive = isActive
	if err := e.putJSON(ctx, eventKey(eventID), event); err != nil {
		return err
	}

	e.logger.Info("event status changed", "id", eventID, "is_active", isActive)
	return nil
}

// updateEventFeeRate changes an event's fee rate. Organizer only, capped at
// 10%. Deliberately not part of the public surface: changing the rate under
// participants who registered at another rate is an open product question,
// so only tests exercise it.
func (e *Engine) updateEventFeeRate(ctx context.Context, eventID uint64, newRate uint32) error {
	event, err := e.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if err := e.oracle.RequireAuthorized(ctx, event.Organizer); err != nil {
		return err
	}
	if newRate > maxFeeRate {
		return ErrFeeRateTooHigh
	}

	event.FeeRate = newRate
	return e.putJSON(ctx, eventKey(eventID), event)
}

// GetEvent returns an event by id.
func (e *Engine) GetEvent(ctx context.Context, eventID uint64) (Event, error) {
	return e.loadEvent(ctx, eventID)
}

// GetEventByName resolves a name through the name index and returns the
// event. A miss at either step surfaces as ErrEventNotFound.
func (e *Engine) GetEventByName(ctx context.Context, name string) (Event, error) {
	data, ok, err := e.store.Get(ctx, eventNameKey(name))
	if err != nil {
		return Event{}, fmt.Errorf("load name index: %w", err)
	}
	if !ok {
		return Event{}, fmt.Errorf("%w: name %q", ErrEventNotFound, name)
	}

	eventID, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("decode name index for %q: %w", name, err)
	}
	return e.loadEvent(ctx, eventID)
}

// ListEvents returns up to limit events in id order, hard-capped at 50 to
// bound iteration cost. Ids with no stored record are skipped.
func (e *Engine) ListEvents(ctx context.Context, limit uint32) ([]Event, error) {
	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	if limit > maxListEvents {
		limit = maxListEvents
	}

	events := make([]Event, 0, limit)
	for id := uint64(1); id < cfg.NextEventID; id++ {
		if uint32(len(events)) >= limit {
			break
		}
		var ev Event
		ok, err := e.getJSON(ctx, eventKey(id), &ev)
		if err != nil {
			return nil, err
		}
		if ok {
			events = append(events, ev)
		}
	}
	return events, nil
}
