package ledger

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// AuthorizeFeePayments grants the engine a standing allowance of up to
// maxFeeAmount from the fee payer's tokens, replacing any previous grant.
// Payments with a pre-authorized fee payer draw against it.
func (e *Engine) AuthorizeFeePayments(ctx context.Context, feePayer string, maxFeeAmount sdkmath.Int) error {
	if err := e.oracle.RequireAuthorized(ctx, feePayer); err != nil {
		return err
	}
	if !maxFeeAmount.IsPositive() {
		return ErrAmountNotPositive
	}

	expiresAt := e.clock.Now().Add(feeAuthorizationTTL)
	if err := e.token.Approve(ctx, feePayer, e.addr, maxFeeAmount, expiresAt); err != nil {
		return fmt.Errorf("approve fee allowance: %w", err)
	}

	e.logger.Info("fee payments authorized", "fee_payer", feePayer, "max_fee", maxFeeAmount.String())
	return nil
}

// RevokeFeeAuthorization removes the fee payer's standing allowance.
func (e *Engine) RevokeFeeAuthorization(ctx context.Context, feePayer string) error {
	if err := e.oracle.RequireAuthorized(ctx, feePayer); err != nil {
		return err
	}

	if err := e.token.Approve(ctx, feePayer, e.addr, sdkmath.ZeroInt(), e.clock.Now()); err != nil {
		return fmt.Errorf("revoke fee allowance: %w", err)
	}

	e.logger.Info("fee authorization revoked", "fee_payer", feePayer)
	return nil
}

// IncreaseEventAllowance raises the organizer's standing allowance for an
// event by additionalAllowance. The underlying approve call is absolute,
// not incremental, so the current allowance is read and re-approved with
// the summed value.
func (e *Engine) IncreaseEventAllowance(ctx context.Context, eventID uint64, additionalAllowance sdkmath.Int) error {
	if !additionalAllowance.IsPositive() {
		return ErrAmountNotPositive
	}

	event, err := e.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if err := e.oracle.RequireAuthorized(ctx, event.Organizer); err != nil {
		return err
	}

	current, err := e.token.Allowance(ctx, event.Organizer, e.addr)
	if err != nil {
		return fmt.Errorf("query allowance: %w", err)
	}

	expiresAt := e.clock.Now().Add(feeAuthorizationTTL)
	if err := e.token.Approve(ctx, event.Organizer, e.addr, current.Add(additionalAllowance), expiresAt); err != nil {
		return fmt.Errorf("approve raised allowance: %w", err)
	}

	e.logger.Info("event allowance increased",
		"event_id", eventID,
		"organizer", event.Organizer,
		"additional", additionalAllowance.String())
	return nil
}

// GetFeeAuthorization returns the fee payer's live allowance toward the
// engine. A pure read; absent or expired grants read as zero.
func (e *Engine) GetFeeAuthorization(ctx context.Context, feePayer string) (sdkmath.Int, error) {
	allowed, err := e.token.Allowance(ctx, feePayer, e.addr)
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("query allowance: %w", err)
	}
	return allowed, nil
}
