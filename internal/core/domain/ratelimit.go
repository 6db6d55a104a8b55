package domain

import "time"

// Failed sign-in policy, shared by the in-process limiter used by API
// clients and the Redis-backed limiter enforced by the server.
const (
	// MaxLoginAttempts is the number of failed attempts tolerated inside
	// LoginAttemptWindow before an identifier is blocked.
	MaxLoginAttempts = 5

	// LoginAttemptWindow is the sliding window over which failed attempts
	// accumulate. An attempt count resets once the window lapses.
	LoginAttemptWindow = 5 * time.Minute

	// LoginBlockDuration is how long an identifier stays blocked after
	// reaching MaxLoginAttempts.
	LoginBlockDuration = 15 * time.Minute
)
