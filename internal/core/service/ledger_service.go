package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clearbooks/ledger-api/internal/core/domain"
	"github.com/clearbooks/ledger-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Resource implements CRUD for one ledger collection. Updates are partial
// JSON patches filtered through the caller's permission metadata before they
// touch storage, so a non-editable field in the payload is silently dropped
// rather than persisted.
type Resource[T any, PT interface {
	*T
	ports.Entity
}] struct {
	name string
	repo ports.Repository[T]
	log  zerolog.Logger
}

func NewResource[T any, PT interface {
	*T
	ports.Entity
}](name string, repo ports.Repository[T], log zerolog.Logger) *Resource[T, PT] {
	return &Resource[T, PT]{name: name, repo: repo, log: log}
}

// Name returns the resource name used in routes and policy tables.
func (s *Resource[T, PT]) Name() string { return s.name }

func (s *Resource[T, PT]) Create(ctx context.Context, doc *T) (*T, error) {
	PT(doc).SetID(uuid.NewString())
	PT(doc).Stamp(time.Now().UTC())
	if err := s.repo.Insert(ctx, doc); err != nil {
		s.log.Error().Err(err).Str("resource", s.name).Msg("create failed")
		return nil, err
	}
	s.log.Info().Str("resource", s.name).Msg("created")
	return doc, nil
}

func (s *Resource[T, PT]) Get(ctx context.Context, role domain.Role, id string) (*T, domain.PermissionMetadata, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.RestrictiveMetadata(), err
	}
	return doc, MetadataFor(s.name, role), nil
}

// ClampPage applies the pagination defaults and bounds.
func ClampPage(opts ports.ListOptions) ports.ListOptions {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultPageLimit
	}
	if opts.Limit > maxPageLimit {
		opts.Limit = maxPageLimit
	}
	return opts
}

func (s *Resource[T, PT]) List(ctx context.Context, role domain.Role, opts ports.ListOptions) ([]T, int64, domain.PermissionMetadata, error) {
	opts = ClampPage(opts)
	docs, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, domain.RestrictiveMetadata(), err
	}
	return docs, total, MetadataFor(s.name, role), nil
}

// Update applies a partial update on behalf of role. The patch is reduced to
// the fields that role may edit; a patch left empty by the filter means the
// caller attempted only forbidden fields.
func (s *Resource[T, PT]) Update(ctx context.Context, role domain.Role, id string, patch map[string]any) (*T, error) {
	if len(patch) == 0 {
		return nil, domain.ErrInvalidInput
	}
	meta := MetadataFor(s.name, role)
	fields := domain.FilterToEditableFields(patch, meta.Editable)
	if len(fields) == 0 {
		s.log.Info().Str("resource", s.name).Str("role", string(role)).Msg("update rejected: no editable fields in patch")
		return nil, domain.ErrForbidden
	}
	normalizePatch(fields)
	fields["updated_at"] = time.Now().UTC()

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Resource[T, PT]) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("resource", s.name).Str("id", id).Msg("deleted")
	return nil
}

// normalizePatch coerces RFC 3339 strings on date-like keys into time.Time
// so they persist as proper BSON dates rather than strings.
func normalizePatch(fields map[string]any) {
	for k, v := range fields {
		str, ok := v.(string)
		if !ok {
			continue
		}
		if strings.HasSuffix(k, "_at") || strings.HasSuffix(k, "_date") {
			if t, err := time.Parse(time.RFC3339, str); err == nil {
				fields[k] = t.UTC()
			}
		}
	}
}
