package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearbooks/ledger-api/internal/core/domain"
	"github.com/clearbooks/ledger-api/internal/core/ports"
)

type stubBillRepo struct {
	inserted []*domain.Bill
	updates  map[string]map[string]any
	byID     map[string]*domain.Bill
}

func newStubBillRepo() *stubBillRepo {
	return &stubBillRepo{
		updates: make(map[string]map[string]any),
		byID:    make(map[string]*domain.Bill),
	}
}

func (r *stubBillRepo) Insert(_ context.Context, doc *domain.Bill) error {
	r.inserted = append(r.inserted, doc)
	r.byID[doc.ID] = doc
	return nil
}

func (r *stubBillRepo) FindByID(_ context.Context, id string) (*domain.Bill, error) {
	doc, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (r *stubBillRepo) List(_ context.Context, _ ports.ListOptions) ([]domain.Bill, int64, error) {
	out := make([]domain.Bill, 0, len(r.byID))
	for _, b := range r.byID {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *stubBillRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	r.updates[id] = fields
	return nil
}

func (r *stubBillRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func newBillResource(repo ports.Repository[domain.Bill]) *Resource[domain.Bill, *domain.Bill] {
	return NewResource[domain.Bill, *domain.Bill](domain.ResourceBills, repo, zerolog.Nop())
}

func TestResource_Create(t *testing.T) {
	repo := newStubBillRepo()
	svc := newBillResource(repo)

	doc, err := svc.Create(context.Background(), &domain.Bill{Vendor: "Acme", Amount: 100})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if doc.ID == "" {
		t.Fatalf("id not assigned")
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not stamped: %+v", doc)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("insert not called")
	}
}

func TestResource_Get_AttachesMetadata(t *testing.T) {
	repo := newStubBillRepo()
	repo.byID["b1"] = &domain.Bill{ID: "b1", Vendor: "Acme"}
	svc := newBillResource(repo)

	_, meta, err := svc.Get(context.Background(), domain.RoleUser, "b1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if meta.EditingEnabled {
		t.Fatalf("blanket editing granted to user role")
	}
	if !domain.CanEditField("description", &meta) {
		t.Fatalf("user should edit bill description")
	}
	if domain.CanEditField("amount", &meta) {
		t.Fatalf("user must not edit bill amount")
	}
}

func TestResource_Get_NotFoundRestrictive(t *testing.T) {
	svc := newBillResource(newStubBillRepo())

	_, meta, err := svc.Get(context.Background(), domain.RoleAdmin, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if len(meta.Editable) != 0 || meta.EditingEnabled {
		t.Fatalf("error path leaked permissive metadata: %+v", meta)
	}
}

func TestResource_Update_FiltersPatchByRole(t *testing.T) {
	repo := newStubBillRepo()
	repo.byID["b1"] = &domain.Bill{ID: "b1", Vendor: "Acme"}
	svc := newBillResource(repo)

	patch := map[string]any{
		"description": "office supplies",
		"amount":      999.0, // not editable for users
		"status":      "paid",
	}
	if _, err := svc.Update(context.Background(), domain.RoleUser, "b1", patch); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	fields := repo.updates["b1"]
	if _, ok := fields["amount"]; ok {
		t.Fatalf("non-editable field persisted: %v", fields)
	}
	if _, ok := fields["status"]; ok {
		t.Fatalf("non-editable field persisted: %v", fields)
	}
	if fields["description"] != "office supplies" {
		t.Fatalf("editable field dropped: %v", fields)
	}
	if _, ok := fields["updated_at"]; !ok {
		t.Fatalf("updated_at not stamped")
	}
}

func TestResource_Update_AllForbiddenFields(t *testing.T) {
	repo := newStubBillRepo()
	repo.byID["b1"] = &domain.Bill{ID: "b1"}
	svc := newBillResource(repo)

	_, err := svc.Update(context.Background(), domain.RoleUser, "b1", map[string]any{"amount": 1.0})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if len(repo.updates) != 0 {
		t.Fatalf("storage touched for forbidden patch")
	}
}

func TestResource_Update_EmptyPatch(t *testing.T) {
	svc := newBillResource(newStubBillRepo())

	_, err := svc.Update(context.Background(), domain.RoleAdmin, "b1", nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestResource_Update_CoercesDateStrings(t *testing.T) {
	repo := newStubBillRepo()
	repo.byID["b1"] = &domain.Bill{ID: "b1"}
	svc := newBillResource(repo)

	due := "2026-09-15T00:00:00Z"
	if _, err := svc.Update(context.Background(), domain.RoleAdmin, "b1", map[string]any{"due_date": due}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	v, ok := repo.updates["b1"]["due_date"].(time.Time)
	if !ok {
		t.Fatalf("due_date not coerced to time.Time: %T", repo.updates["b1"]["due_date"])
	}
	if v.Format(time.RFC3339) != due {
		t.Fatalf("due_date = %v", v)
	}
}

func TestClampPage(t *testing.T) {
	got := ClampPage(ports.ListOptions{})
	if got.Page != 1 || got.Limit != defaultPageLimit {
		t.Fatalf("defaults not applied: %+v", got)
	}
	got = ClampPage(ports.ListOptions{Page: 3, Limit: 5000})
	if got.Limit != maxPageLimit {
		t.Fatalf("limit not capped: %+v", got)
	}
}

func TestMetadataFor(t *testing.T) {
	meta := MetadataFor(domain.ResourceSalaries, domain.RoleUser)
	if len(meta.Editable) != 0 || meta.EditingEnabled {
		t.Fatalf("users must not edit salaries: %+v", meta)
	}

	meta = MetadataFor(domain.ResourceSalaries, domain.RoleAdmin)
	if !meta.EditingEnabled || len(meta.Editable) == 0 {
		t.Fatalf("admin salary policy wrong: %+v", meta)
	}

	meta = MetadataFor("unknown_resource", domain.RoleAdmin)
	if len(meta.Editable) != 0 {
		t.Fatalf("unknown resource granted fields: %+v", meta)
	}

	meta = MetadataFor(domain.ResourceBills, "superuser")
	if meta.UserRole != domain.RoleUser || meta.EditingEnabled {
		t.Fatalf("unknown role not degraded: %+v", meta)
	}
}
