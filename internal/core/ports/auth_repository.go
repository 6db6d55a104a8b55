package ports

import (
	"context"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

// UserRepository defines the interface for the identity store.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// RoleRepository resolves and assigns a user's authorization role.
// RoleFor is a single-row lookup by user id; its failure is non-fatal to
// authentication and callers fall back to the least-privileged role.
type RoleRepository interface {
	RoleFor(ctx context.Context, userID string) (domain.Role, error)
	Assign(ctx context.Context, userID string, role domain.Role) error
}
