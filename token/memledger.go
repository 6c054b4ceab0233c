package token

import (
	"context"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/jonboulle/clockwork"
)

type allowanceKey struct {
	owner   string
	spender string
}

type allowance struct {
	amount    sdkmath.Int
	expiresAt time.Time
}

// MemLedger is an in-memory Ledger. Balances start at zero and are seeded
// with Mint. All methods are safe for concurrent use.
type MemLedger struct {
	mu         sync.Mutex
	clock      clockwork.Clock
	balances   map[string]sdkmath.Int
	allowances map[allowanceKey]allowance
}

// MemOption configures a MemLedger.
type MemOption func(*MemLedger)

// WithClock sets the clock used for allowance expiry. Defaults to the real
// clock; tests pass a fake.
func WithClock(clock clockwork.Clock) MemOption {
	return func(l *MemLedger) {
		l.clock = clock
	}
}

// NewMemLedger creates an empty in-memory token ledger.
func NewMemLedger(opts ...MemOption) *MemLedger {
	l := &MemLedger{
		clock:      clockwork.NewRealClock(),
		balances:   make(map[string]sdkmath.Int),
		allowances: make(map[allowanceKey]allowance),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Mint credits an address out of thin air. Test and demo seeding only.
func (l *MemLedger) Mint(addr string, amount sdkmath.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[addr] = l.balanceLocked(addr).Add(amount)
}

// TotalSupply returns the sum of all balances.
func (l *MemLedger) TotalSupply() sdkmath.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := sdkmath.ZeroInt()
	for _, b := range l.balances {
		total = total.Add(b)
	}
	return total
}

// Balance returns the balance of an address.
func (l *MemLedger) Balance(_ context.Context, addr string) (sdkmath.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceLocked(addr), nil
}

// Transfer moves amount between addresses. Both sides are validated before
// either balance changes.
func (l *MemLedger) Transfer(_ context.Context, from, to string, amount sdkmath.Int) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transferLocked(from, to, amount)
}

// Approve replaces the allowance owner grants spender.
func (l *MemLedger) Approve(_ context.Context, owner, spender string, amount sdkmath.Int, expiresAt time.Time) error {
	if amount.IsNegative() {
		return ErrNonPositiveAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	key := allowanceKey{owner: owner, spender: spender}
	if amount.IsZero() {
		delete(l.allowances, key)
		return nil
	}
	l.allowances[key] = allowance{amount: amount, expiresAt: expiresAt}
	return nil
}

// Allowance returns the live allowance owner has granted spender.
func (l *MemLedger) Allowance(_ context.Context, owner, spender string) (sdkmath.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowanceLocked(owner, spender), nil
}

// TransferFrom draws amount from owner's balance against the allowance
// granted to spender, crediting the recipient. The allowance is decremented
// only when the transfer succeeds.
func (l *MemLedger) TransferFrom(_ context.Context, spender, owner, recipient string, amount sdkmath.Int) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.allowanceLocked(owner, spender)
	if current.LT(amount) {
		return ErrInsufficientAllowance
	}
	if err := l.transferLocked(owner, recipient, amount); err != nil {
		return err
	}

	key := allowanceKey{owner: owner, spender: spender}
	remaining := current.Sub(amount)
	if remaining.IsZero() {
		delete(l.allowances, key)
		return nil
	}
	l.allowances[key] = allowance{amount: remaining, expiresAt: l.allowances[key].expiresAt}
	return nil
}

func (l *MemLedger) balanceLocked(addr string) sdkmath.Int {
	if b, ok := l.balances[addr]; ok {
		return b
	}
	return sdkmath.ZeroInt()
}

func (l *MemLedger) allowanceLocked(owner, spender string) sdkmath.Int {
	a, ok := l.allowances[allowanceKey{owner: owner, spender: spender}]
	if !ok {
		return sdkmath.ZeroInt()
	}
	if l.clock.Now().After(a.expiresAt) {
		return sdkmath.ZeroInt()
	}
	return a.amount
}

func (l *MemLedger) transferLocked(from, to string, amount sdkmath.Int) error {
	fromBalance := l.balanceLocked(from)
	if fromBalance.LT(amount) {
		return ErrInsufficientBalance
	}
	l.balances[from] = fromBalance.Sub(amount)
	l.balances[to] = l.balanceLocked(to).Add(amount)
	return nil
}

var _ Ledger = (*MemLedger)(nil)
