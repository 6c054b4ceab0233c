package ledger

import "errors"

var (
	// Initialization and configuration errors
	ErrAlreadyInitialized = errors.New("ledger: contract already initialized")
	ErrNotInitialized     = errors.New("ledger: contract not initialized")
	ErrNotAdmin           = errors.New("ledger: caller is not the admin")
	ErrFeeRateTooHigh     = errors.New("ledger: fee rate exceeds 10 percent")

	// Event registry errors
	ErrEventNotFound    = errors.New("ledger: event not found")
	ErrEventExists      = errors.New("ledger: event name already exists")
	ErrEventNameTooLong = errors.New("ledger: event name exceeds 50 characters")
	ErrEventNotActive   = errors.New("ledger: event is not active")
	ErrEventStillActive = errors.New("ledger: event is still active")

	// Wallet registration errors
	ErrWalletRegistered        = errors.New("ledger: wallet already registered")
	ErrWalletNotRegistered     = errors.New("ledger: wallet not registered")
	ErrOrganizerCannotRegister = errors.New("ledger: organizer cannot register for own event")

	// Payment errors
	ErrAmountNotPositive     = errors.New("ledger: amount must be positive")
	ErrInsufficientBalance   = errors.New("ledger: insufficient balance from sender")
	ErrInsufficientAllowance = errors.New("ledger: insufficient fee allowance")
)
