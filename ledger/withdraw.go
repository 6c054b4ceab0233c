package ledger

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// accumulatedFees reads an event's fee accumulator, defaulting to zero.
func (e *Engine) accumulatedFees(ctx context.Context, eventID uint64) (sdkmath.Int, error) {
	var fees sdkmath.Int
	ok, err := e.getJSON(ctx, eventFeeKey(eventID), &fees)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if !ok {
		return sdkmath.ZeroInt(), nil
	}
	return fees, nil
}

// GetEventFees returns the fees accumulated for an event so far. Events
// with no accumulator record (including nonexistent ones) read as zero.
func (e *Engine) GetEventFees(ctx context.Context, eventID uint64) (sdkmath.Int, error) {
	return e.accumulatedFees(ctx, eventID)
}

// WithdrawEventFees pays an event's accumulated fees out to its organizer
// and zeroes the accumulator. The event must be deactivated first. The
// token transfer happens before the accumulator is cleared, so a failed
// transfer leaves the balance claimable on retry. A second call after a
// successful withdrawal returns zero without error.
func (e *Engine) WithdrawEventFees(ctx context.Context, eventID uint64) (sdkmath.Int, error) {
	event, err := e.loadEvent(ctx, eventID)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if err := e.oracle.RequireAuthorized(ctx, event.Organizer); err != nil {
		return sdkmath.Int{}, err
	}
	if event.IsActive {
		return sdkmath.Int{}, ErrEventStillActive
	}

	fees, err := e.accumulatedFees(ctx, eventID)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if fees.IsPositive() {
		if err := e.token.Transfer(ctx, e.addr, event.Organizer, fees); err != nil {
			return sdkmath.Int{}, fmt.Errorf("pay out fees: %w", err)
		}
		if err := e.store.Delete(ctx, eventFeeKey(eventID)); err != nil {
			return sdkmath.Int{}, fmt.Errorf("clear fee accumulator: %w", err)
		}
		e.logger.Info("event fees withdrawn",
			"event_id", eventID,
			"organizer", event.Organizer,
			"amount", fees.String())
	}
	return fees, nil
}
