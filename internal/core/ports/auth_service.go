package ports

import (
	"context"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

// RegisterInput carries the data needed to provision a dashboard account.
type RegisterInput struct {
	Email     string
	Password  string
	Role      domain.Role
	Confirmed bool
}

type AuthService interface {
	// SignIn exchanges credentials for a bearer token and its session.
	// Failures map to the fixed error taxonomy in the domain package.
	SignIn(ctx context.Context, email, password string) (string, *domain.Session, error)
	// SignOut invalidates the session; unknown ids are a no-op.
	SignOut(ctx context.Context, sessionID string) error
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
}
