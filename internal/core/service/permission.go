package service

import "github.com/clearbooks/ledger-api/internal/core/domain"

// editablePolicies maps resource name -> role -> fields that role may edit.
// Admin rows enumerate every mutable field even though EditingEnabled is
// true for admins: per-field checks consult the list alone, so the two
// signals must be kept consistent here rather than inferred from each other.
var editablePolicies = map[string]map[domain.Role][]string{
	domain.ResourceBills: {
		domain.RoleAdmin: {"vendor", "description", "amount", "currency", "category", "due_date", "status", "paid_at", "receipt_url"},
		domain.RoleUser:  {"description", "category", "receipt_url"},
	},
	domain.ResourceCards: {
		domain.RoleAdmin: {"label", "holder", "last_four", "provider", "credit_limit", "balance", "statement_day", "active"},
		domain.RoleUser:  {"label"},
	},
	domain.ResourceTransactions: {
		domain.RoleAdmin: {"kind", "amount", "category", "note", "occurred_at", "recorded_by"},
		domain.RoleUser:  {"category", "note"},
	},
	domain.ResourceBudgets: {
		domain.RoleAdmin: {"category", "period", "planned_amount", "spent_amount", "notes"},
		domain.RoleUser:  {"notes"},
	},
	domain.ResourceSalaries: {
		domain.RoleAdmin: {"employee_id", "period", "gross", "deductions", "net", "status", "paid_at"},
		domain.RoleUser:  {},
	},
	domain.ResourcePettyExpenses: {
		domain.RoleAdmin: {"description", "amount", "spent_by", "receipt_url", "occurred_at"},
		domain.RoleUser:  {"description", "receipt_url"},
	},
	domain.ResourceReminders: {
		domain.RoleAdmin: {"title", "note", "due_at", "done"},
		domain.RoleUser:  {"title", "note", "due_at", "done"},
	},
	domain.ResourceEmployees: {
		domain.RoleAdmin: {"name", "email", "position", "monthly_salary", "hired_at", "active"},
		domain.RoleUser:  {},
	},
}

// MetadataFor derives a fresh permission envelope for one resource type and
// role. Unknown resources or roles resolve to the restrictive default.
func MetadataFor(resource string, role domain.Role) domain.PermissionMetadata {
	meta := domain.RestrictiveMetadata()
	if role.Valid() {
		meta.UserRole = role
	}
	policy, ok := editablePolicies[resource]
	if !ok {
		return meta
	}
	meta.Editable = append([]string{}, policy[meta.UserRole]...)
	meta.EditingEnabled = meta.UserRole == domain.RoleAdmin
	return meta
}

// EditableFields returns the fields a role may edit on a resource type.
func EditableFields(resource string, role domain.Role) []string {
	return MetadataFor(resource, role).Editable
}
