package ports

import (
	"context"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

// SessionStore persists active sessions. Deleting a session invalidates
// every bearer token that resolves to it.
type SessionStore interface {
	Save(ctx context.Context, sess domain.Session) error
	// Get returns domain.ErrSessionExpired when the id is unknown or expired.
	Get(ctx context.Context, id string) (domain.Session, error)
	// Delete is idempotent; deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
