package service

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

// limiterCacheSize bounds the attempt table so a stream of unique
// identifiers cannot grow memory without limit.
const limiterCacheSize = 4096

type loginAttempt struct {
	attempts     int
	lastAttempt  time.Time
	blockedUntil time.Time
}

// LoginLimiter is the in-process rate limiter for failed sign-in attempts.
// It is a courtesy guard held for the lifetime of the process: entries are
// lost on restart, which is acceptable because the server enforces the same
// policy authoritatively (see the Redis implementation).
//
// Entries are kept in a bounded TTL cache; an entry untouched for longer
// than the attempt window plus the block duration can never matter again.
type LoginLimiter struct {
	mu      sync.Mutex
	entries *expirable.LRU[string, *loginAttempt]
	now     func() time.Time
}

func NewLoginLimiter() *LoginLimiter {
	ttl := domain.LoginAttemptWindow + domain.LoginBlockDuration
	return &LoginLimiter{
		entries: expirable.NewLRU[string, *loginAttempt](limiterCacheSize, nil, ttl),
		now:     time.Now,
	}
}

// IsLimited reports whether a block is active for the identifier. An entry
// whose attempt window has lapsed is discarded on the way out.
func (l *LoginLimiter) IsLimited(_ context.Context, identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries.Get(identifier)
	if !ok {
		return false
	}
	now := l.now()
	if !entry.blockedUntil.IsZero() && now.Before(entry.blockedUntil) {
		return true
	}
	if now.Sub(entry.lastAttempt) > domain.LoginAttemptWindow {
		l.entries.Remove(identifier)
		return false
	}
	return entry.attempts >= domain.MaxLoginAttempts
}

// RecordAttempt registers one failed credential exchange. The count restarts
// at 1 when no entry exists or the window has lapsed; reaching the attempt
// limit starts the block.
func (l *LoginLimiter) RecordAttempt(_ context.Context, identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries.Get(identifier)
	if !ok || now.Sub(entry.lastAttempt) > domain.LoginAttemptWindow {
		l.entries.Add(identifier, &loginAttempt{attempts: 1, lastAttempt: now})
		return
	}

	entry.attempts++
	entry.lastAttempt = now
	if entry.attempts >= domain.MaxLoginAttempts {
		entry.blockedUntil = now.Add(domain.LoginBlockDuration)
	}
	// Re-add to refresh the cache TTL.
	l.entries.Add(identifier, entry)
}

// Reset deletes the identifier's entry entirely.
func (l *LoginLimiter) Reset(_ context.Context, identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries.Remove(identifier)
}

// RemainingCooldown is zero when the identifier is not blocked.
func (l *LoginLimiter) RemainingCooldown(_ context.Context, identifier string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries.Get(identifier)
	if !ok || entry.blockedUntil.IsZero() {
		return 0
	}
	remaining := entry.blockedUntil.Sub(l.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}
