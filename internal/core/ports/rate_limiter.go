package ports

import (
	"context"
	"time"
)

// RateLimiter tracks failed sign-in attempts per identifier and enforces a
// cooldown after repeated failures. Implementations exist in-process (the
// client-side courtesy guard) and in Redis (the authoritative server check).
type RateLimiter interface {
	// IsLimited reports whether a block is active for the identifier.
	// Entries whose attempt window has lapsed are discarded lazily.
	IsLimited(ctx context.Context, identifier string) bool
	// RecordAttempt registers one failed credential exchange.
	RecordAttempt(ctx context.Context, identifier string)
	// Reset clears the identifier's entry entirely (successful sign-in).
	Reset(ctx context.Context, identifier string)
	// RemainingCooldown is zero when not blocked.
	RemainingCooldown(ctx context.Context, identifier string) time.Duration
}
