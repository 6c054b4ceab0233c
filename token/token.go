// Package token defines the fungible-token ledger interface the payment
// engine settles against, and an in-memory reference implementation with
// expiring allowances for tests, demos, and single-process deployments.
package token

import (
	"context"
	"errors"
	"time"

	sdkmath "cosmossdk.io/math"
)

var (
	ErrInsufficientBalance   = errors.New("token: insufficient balance")
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
	ErrNonPositiveAmount     = errors.New("token: amount must be positive")
)

// Ledger is an external fungible-token ledger. Every call is synchronous
// and atomic: it either fully applies or returns an error having changed
// nothing. Authorization of the moving party is the ledger's own concern;
// the payment engine performs its authorization checks before calling in.
type Ledger interface {
	// Balance returns the balance of an address. Unknown addresses have a
	// zero balance.
	Balance(ctx context.Context, addr string) (sdkmath.Int, error)

	// Transfer moves amount from one address to another.
	Transfer(ctx context.Context, from, to string, amount sdkmath.Int) error

	// Approve sets the standing allowance owner grants spender, replacing
	// any previous allowance. The allowance is void after expiresAt.
	Approve(ctx context.Context, owner, spender string, amount sdkmath.Int, expiresAt time.Time) error

	// Allowance returns the live allowance owner has granted spender.
	// Expired or absent allowances read as zero.
	Allowance(ctx context.Context, owner, spender string) (sdkmath.Int, error)

	// TransferFrom moves amount from owner to recipient, drawing down the
	// allowance owner granted spender.
	TransferFrom(ctx context.Context, spender, owner, recipient string, amount sdkmath.Int) error
}
