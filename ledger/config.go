package ledger

import (
	"context"
	"fmt"
)

// Initialize sets up the contract configuration. It can succeed exactly
// once; repeat calls fail with ErrAlreadyInitialized. The admin identity
// must authorize the call.
func (e *Engine) Initialize(ctx context.Context, admin string, defaultFeeRate uint32, tokenAddress string) error {
	if err := e.oracle.RequireAuthorized(ctx, admin); err != nil {
		return err
	}

	ok, err := e.store.Has(ctx, configKey())
	if err != nil {
		return fmt.Errorf("check config: %w", err)
	}
	if ok {
		return ErrAlreadyInitialized
	}

	if defaultFeeRate > maxFeeRate {
		return ErrFeeRateTooHigh
	}

	cfg := Config{
		Admin:          admin,
		DefaultFeeRate: defaultFeeRate,
		NextEventID:    1,
		TokenAddress:   tokenAddress,
	}
	if err := e.putJSON(ctx, configKey(), cfg); err != nil {
		return err
	}

	e.logger.Info("contract initialized",
		"admin", admin,
		"default_fee_rate", defaultFeeRate,
		"token_address", tokenAddress)
	return nil
}

// GetConfig returns a copy of the configuration. Admin only.
func (e *Engine) GetConfig(ctx context.Context, caller string) (Config, error) {
	if err := e.oracle.RequireAuthorized(ctx, caller); err != nil {
		return Config{}, err
	}

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return Config{}, err
	}
	if caller != cfg.Admin {
		return Config{}, ErrNotAdmin
	}
	return cfg, nil
}

// UpdateDefaultFeeRate changes the default fee rate applied to new events
// and non-event payments. Admin only; the rate keeps the 10% cap.
func (e *Engine) UpdateDefaultFeeRate(ctx context.Context, caller string, newRate uint32) error {
	if err := e.oracle.RequireAuthorized(ctx, caller); err != nil {
		return err
	}

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return err
	}
	if caller != cfg.Admin {
		return ErrNotAdmin
	}
	if newRate > maxFeeRate {
		return ErrFeeRateTooHigh
	}

	cfg.DefaultFeeRate = newRate
	if err := e.putJSON(ctx, configKey(), cfg); err != nil {
		return err
	}

	e.logger.Info("default fee rate updated", "fee_rate", newRate)
	return nil
}
