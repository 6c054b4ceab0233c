package ledger

import (
	"context"
	"fmt"
)

// RegisterWalletForEvent registers a participant wallet for an active
// event. The organizer authorizes (and conceptually pays for) the
// registration, not the wallet itself; the organizer can never register as
// a participant in their own event.
func (e *Engine) RegisterWalletForEvent(ctx context.Context, eventID uint64, wallet string) error {
	event, err := e.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.IsActive {
		return ErrEventNotActive
	}
	if wallet == event.Organizer {
		return ErrOrganizerCannotRegister
	}
	if err := e.oracle.RequireAuthorized(ctx, event.Organizer); err != nil {
		return err
	}

	key := registrationKey(eventID, wallet)
	registered, err := e.store.Has(ctx, key)
	if err != nil {
		return fmt.Errorf("check registration: %w", err)
	}
	if registered {
		return fmt.Errorf("%w: %s", ErrWalletRegistered, wallet)
	}

	if err := e.store.Set(ctx, key, []byte("true")); err != nil {
		return fmt.Errorf("persist registration: %w", err)
	}

	e.logger.Info("wallet registered", "event_id", eventID, "wallet", wallet)
	return nil
}

// UnregisterWalletFromEvent removes a wallet's registration. Organizer
// only. Unlike registration there is no activity precondition: wallets can
// be removed from deactivated events.
func (e *Engine) UnregisterWalletFromEvent(ctx context.Context, eventID uint64, wallet string) error {
	event, err := e.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if err := e.oracle.RequireAuthorized(ctx, event.Organizer); err != nil {
		return err
	}

	key := registrationKey(eventID, wallet)
	registered, err := e.store.Has(ctx, key)
	if err != nil {
		return fmt.Errorf("check registration: %w", err)
	}
	if !registered {
		return fmt.Errorf("%w: %s", ErrWalletNotRegistered, wallet)
	}

	if err := e.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove registration: %w", err)
	}

	e.logger.Info("wallet unregistered", "event_id", eventID, "wallet", wallet)
	return nil
}

// IsWalletRegistered reports whether a wallet is registered for an event.
// Nonexistent events simply read as unregistered.
func (e *Engine) IsWalletRegistered(ctx context.Context, eventID uint64, wallet string) (bool, error) {
	return e.store.Has(ctx, registrationKey(eventID, wallet))
}
