package domain

import "time"

// Session is the server-side record kept for an authenticated visit.
// ID is an opaque identifier; the bearer token presented by clients
// resolves to it. Deleting the record invalidates the token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry.
func (s Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
