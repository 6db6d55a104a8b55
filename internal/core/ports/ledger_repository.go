package ports

import (
	"context"
	"time"
)

// Entity is implemented by every ledger document so generic services can
// assign identity and timestamps.
type Entity interface {
	SetID(id string)
	Stamp(now time.Time)
}

// ListOptions carries pagination for list queries.
type ListOptions struct {
	Page  int // 1-based
	Limit int // capped by the service layer
}

// Repository defines persistence for one ledger collection.
type Repository[T any] interface {
	Insert(ctx context.Context, doc *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	// List returns one page sorted by creation time descending, plus the
	// total document count.
	List(ctx context.Context, opts ListOptions) ([]T, int64, error)
	// UpdateFields applies a partial $set-style update.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}
