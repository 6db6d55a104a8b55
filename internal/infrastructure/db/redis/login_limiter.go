package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

// Key formats: attempts:<identifier> (counter, expires with the window)
// and block:<identifier> (flag, expires with the block duration).
const (
	attemptsPrefix = "login_attempts:"
	blockPrefix    = "login_block:"
)

// LoginLimiter is the server-side failed sign-in limiter. It applies the
// same policy as the in-process guard but survives restarts and is shared
// across instances. Redis errors fail open: the limiter is a throttle, not
// the credential check, and availability wins over strictness here.
type LoginLimiter struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewLoginLimiter(client *redis.Client, log zerolog.Logger) *LoginLimiter {
	return &LoginLimiter{client: client, log: log}
}

func (l *LoginLimiter) IsLimited(ctx context.Context, identifier string) bool {
	blocked, err := l.client.Exists(ctx, blockPrefix+identifier).Result()
	if err != nil {
		l.log.Warn().Err(err).Msg("rate limit check failed, allowing attempt")
		return false
	}
	if blocked > 0 {
		return true
	}
	attempts, err := l.client.Get(ctx, attemptsPrefix+identifier).Int()
	if err != nil {
		return false
	}
	return attempts >= domain.MaxLoginAttempts
}

func (l *LoginLimiter) RecordAttempt(ctx context.Context, identifier string) {
	key := attemptsPrefix + identifier
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.log.Warn().Err(err).Msg("rate limit record failed")
		return
	}
	if n == 1 {
		// Fresh entry: the counter lives for one attempt window.
		l.client.Expire(ctx, key, domain.LoginAttemptWindow)
	}
	if n >= int64(domain.MaxLoginAttempts) {
		if err := l.client.Set(ctx, blockPrefix+identifier, "1", domain.LoginBlockDuration).Err(); err != nil {
			l.log.Warn().Err(err).Msg("rate limit block failed")
		}
	}
}

func (l *LoginLimiter) Reset(ctx context.Context, identifier string) {
	if err := l.client.Del(ctx, attemptsPrefix+identifier, blockPrefix+identifier).Err(); err != nil {
		l.log.Warn().Err(err).Msg("rate limit reset failed")
	}
}

func (l *LoginLimiter) RemainingCooldown(ctx context.Context, identifier string) time.Duration {
	ttl, err := l.client.TTL(ctx, blockPrefix+identifier).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}
