package ledger

import (
	"time"

	sdkmath "cosmossdk.io/math"
)

// Fee rates are expressed in basis points: parts per 10,000.
const (
	// maxFeeRate caps every fee rate at 10%.
	maxFeeRate = 1000

	// feeDivisor converts basis points to a fraction.
	feeDivisor = 10000

	// maxEventNameLen bounds event names, in bytes.
	maxEventNameLen = 50

	// maxListEvents is the hard ceiling on ListEvents results.
	maxListEvents = 50

	// feeAuthorizationTTL is the expiration horizon granted to standing
	// fee allowances.
	feeAuthorizationTTL = 180 * 24 * time.Hour
)

// Config is the singleton instance-wide configuration.
type Config struct {
	Admin          string `json:"admin"`
	DefaultFeeRate uint32 `json:"default_fee_rate"`
	NextEventID    uint64 `json:"next_event_id"`
	TokenAddress   string `json:"token_address"`
}

// Event is a named, organizer-owned payment context.
type Event struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Organizer   string      `json:"organizer"`
	FeeRate     uint32      `json:"fee_rate"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	TotalVolume sdkmath.Int `json:"total_volume"`
}
