package ledger

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/eventpay-xyz/go-eventpay/journal"
)

// feeFor computes the fee portion of a gross amount at a basis-point rate,
// rounding down.
func feeFor(amount sdkmath.Int, feeRate uint32) sdkmath.Int {
	return amount.MulRaw(int64(feeRate)).QuoRaw(feeDivisor)
}

// EventPayment settles a payment between two wallets registered for an
// active event. The gross amount moves from the sender to the engine, the
// net (gross minus fee) moves on to the recipient, and the fee stays with
// the engine, accumulated for the organizer to withdraw after the event is
// deactivated. The organizer absorbs the fee: it is deducted from the
// gross, not billed separately.
func (e *Engine) EventPayment(ctx context.Context, eventID uint64, from, to string, amount sdkmath.Int) error {
	if err := e.oracle.RequireAuthorized(ctx, from); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}

	event, err := e.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.IsActive {
		return ErrEventNotActive
	}

	for _, wallet := range []string{from, to} {
		registered, err := e.IsWalletRegistered(ctx, eventID, wallet)
		if err != nil {
			return err
		}
		if !registered {
			return fmt.Errorf("%w: %s", ErrWalletNotRegistered, wallet)
		}
	}

	balance, err := e.token.Balance(ctx, from)
	if err != nil {
		return fmt.Errorf("query sender balance: %w", err)
	}
	if balance.LT(amount) {
		return ErrInsufficientBalance
	}

	fee := feeFor(amount, event.FeeRate)
	net := amount.Sub(fee)

	// Gross in, net out; the fee remains held by the engine.
	if err := e.token.Transfer(ctx, from, e.addr, amount); err != nil {
		return fmt.Errorf("collect gross amount: %w", err)
	}
	if err := e.token.Transfer(ctx, e.addr, to, net); err != nil {
		return fmt.Errorf("forward net amount: %w", err)
	}

	fees, err := e.accumulatedFees(ctx, eventID)
	if err != nil {
		return err
	}
	if err := e.putJSON(ctx, eventFeeKey(eventID), fees.Add(fee)); err != nil {
		return err
	}

	event.TotalVolume = event.TotalVolume.Add(amount)
	if err := e.putJSON(ctx, eventKey(eventID), event); err != nil {
		return err
	}

	e.publish(ctx, journal.Payment{
		EventID:   eventID,
		From:      from,
		To:        to,
		FeePayer:  event.Organizer,
		Amount:    amount,
		FeeAmount: fee,
		FeeRate:   event.FeeRate,
	})
	e.logger.Info("event payment settled",
		"event_id", eventID,
		"from", from,
		"to", to,
		"amount", amount.String(),
		"fee", fee.String())
	return nil
}

// PaymentWithThirdPartyFee settles a payment outside any event context,
// with a third party compensated for covering the fee. Both the sender and
// the fee payer must authorize the call. The fee, computed at the default
// rate, is paid out to the fee payer rather than charged to them — the
// inverse of the event payment's organizer-absorbs-fee framing.
func (e *Engine) PaymentWithThirdPartyFee(ctx context.Context, from, to, feePayer string, amount sdkmath.Int) error {
	if err := e.oracle.RequireAuthorized(ctx, from); err != nil {
		return err
	}
	if err := e.oracle.RequireAuthorized(ctx, feePayer); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}

	fee := feeFor(amount, cfg.DefaultFeeRate)
	net := amount.Sub(fee)

	balance, err := e.token.Balance(ctx, from)
	if err != nil {
		return fmt.Errorf("query sender balance: %w", err)
	}
	if balance.LT(amount) {
		return ErrInsufficientBalance
	}

	if err := e.token.Transfer(ctx, from, e.addr, amount); err != nil {
		return fmt.Errorf("collect gross amount: %w", err)
	}
	if err := e.token.Transfer(ctx, e.addr, to, net); err != nil {
		return fmt.Errorf("forward net amount: %w", err)
	}
	if fee.IsPositive() {
		if err := e.token.Transfer(ctx, e.addr, feePayer, fee); err != nil {
			return fmt.Errorf("pay out fee: %w", err)
		}
	}

	e.publish(ctx, journal.Payment{
		EventID:   0,
		From:      from,
		To:        to,
		FeePayer:  feePayer,
		Amount:    amount,
		FeeAmount: fee,
		FeeRate:   cfg.DefaultFeeRate,
	})
	e.logger.Info("third-party-fee payment settled",
		"from", from,
		"to", to,
		"fee_payer", feePayer,
		"amount", amount.String(),
		"fee", fee.String())
	return nil
}

// PaymentWithAuthFeePayer settles a payment whose fee payer participates
// through a standing allowance instead of a signature: only the sender
// authorizes the call, and the fee is drawn against the fee payer's
// pre-authorized allowance and paid back to them — a reward claim against
// a standing authorization, not a debit.
func (e *Engine) PaymentWithAuthFeePayer(ctx context.Context, from, to, feePayer string, amount sdkmath.Int) error {
	if err := e.oracle.RequireAuthorized(ctx, from); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}

	fee := feeFor(amount, cfg.DefaultFeeRate)

	allowed, err := e.token.Allowance(ctx, feePayer, e.addr)
	if err != nil {
		return fmt.Errorf("query fee allowance: %w", err)
	}
	if allowed.LT(fee) {
		return ErrInsufficientAllowance
	}

	balance, err := e.token.Balance(ctx, from)
	if err != nil {
		return fmt.Errorf("query sender balance: %w", err)
	}
	if balance.LT(amount) {
		return ErrInsufficientBalance
	}

	net := amount.Sub(fee)

	if err := e.token.Transfer(ctx, from, e.addr, amount); err != nil {
		return fmt.Errorf("collect gross amount: %w", err)
	}
	if err := e.token.Transfer(ctx, e.addr, to, net); err != nil {
		return fmt.Errorf("forward net amount: %w", err)
	}
	if fee.IsPositive() {
		if err := e.token.TransferFrom(ctx, e.addr, feePayer, feePayer, fee); err != nil {
			return fmt.Errorf("claim fee from allowance: %w", err)
		}
	}

	e.publish(ctx, journal.Payment{
		EventID:   0,
		From:      from,
		To:        to,
		FeePayer:  feePayer,
		Amount:    amount,
		FeeAmount: fee,
		FeeRate:   cfg.DefaultFeeRate,
	})
	e.logger.Info("pre-authorized-fee payment settled",
		"from", from,
		"to", to,
		"fee_payer", feePayer,
		"amount", amount.String(),
		"fee", fee.String())
	return nil
}
