package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sign-in failures map to a fixed set of user-facing categories. Callers
// branch on these sentinels, never on provider-specific error shapes.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailUnconfirmed    = errors.New("email address not confirmed")
	ErrRateLimited         = errors.New("too many failed attempts")
	ErrUpstreamRateLimited = errors.New("too many requests, try again later")
	ErrTimeout             = errors.New("request timed out")
	ErrNetwork             = errors.New("network error")
	ErrServer              = errors.New("server error")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrUnknown             = errors.New("unknown error")
)

// Resource and account errors.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrForbidden      = errors.New("access forbidden")
	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user already exists")
	ErrSessionExpired = errors.New("session expired")
)

// RateLimitError reports an active sign-in cooldown. It is the only error in
// the taxonomy carrying a payload: the remaining cooldown, so callers can
// render a live countdown.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many failed attempts, retry in %d seconds", e.RetryAfterSeconds())
}

// Is makes errors.Is(err, ErrRateLimited) match.
func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// RetryAfterSeconds rounds the remaining cooldown up to whole seconds.
func (e *RateLimitError) RetryAfterSeconds() int {
	if e.RetryAfter <= 0 {
		return 0
	}
	return int((e.RetryAfter + time.Second - 1) / time.Second)
}

// Stable machine-readable codes used in HTTP error envelopes so API clients
// can translate wire errors back into the sentinels above.
const (
	CodeInvalidInput        = "invalid_input"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeEmailUnconfirmed    = "email_unconfirmed"
	CodeRateLimited         = "rate_limited"
	CodeUpstreamRateLimited = "upstream_rate_limited"
	CodeTimeout             = "timeout"
	CodeNetwork             = "network_error"
	CodeServer              = "server_error"
	CodeServiceUnavailable  = "service_unavailable"
	CodeSessionExpired      = "session_expired"
	CodeForbidden           = "forbidden"
	CodeNotFound            = "not_found"
	CodeConflict            = "conflict"
	CodeUnknown             = "unknown"
)

// ErrorCode returns the wire code for a taxonomy error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrEmailUnconfirmed):
		return CodeEmailUnconfirmed
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrUpstreamRateLimited):
		return CodeUpstreamRateLimited
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrNetwork):
		return CodeNetwork
	case errors.Is(err, ErrServiceUnavailable):
		return CodeServiceUnavailable
	case errors.Is(err, ErrSessionExpired):
		return CodeSessionExpired
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUserExists):
		return CodeConflict
	case errors.Is(err, ErrServer):
		return CodeServer
	default:
		return CodeUnknown
	}
}

// ErrorFromCode translates a wire code back into its sentinel. Unrecognized
// codes resolve to ErrUnknown.
func ErrorFromCode(code string) error {
	switch code {
	case CodeInvalidInput:
		return ErrInvalidInput
	case CodeInvalidCredentials:
		return ErrInvalidCredentials
	case CodeEmailUnconfirmed:
		return ErrEmailUnconfirmed
	case CodeRateLimited:
		return ErrRateLimited
	case CodeUpstreamRateLimited:
		return ErrUpstreamRateLimited
	case CodeTimeout:
		return ErrTimeout
	case CodeNetwork:
		return ErrNetwork
	case CodeServer:
		return ErrServer
	case CodeServiceUnavailable:
		return ErrServiceUnavailable
	case CodeSessionExpired:
		return ErrSessionExpired
	case CodeForbidden:
		return ErrForbidden
	case CodeNotFound:
		return ErrNotFound
	case CodeConflict:
		return ErrUserExists
	default:
		return ErrUnknown
	}
}
