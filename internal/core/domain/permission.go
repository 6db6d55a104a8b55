package domain

import "encoding/json"

// PermissionMetadata describes which fields the current caller may edit on a
// single resource instance. It travels alongside resource payloads as the
// "_metadata" envelope field and is derived fresh on every fetch.
//
// EditingEnabled signals blanket edit rights for display purposes (banners,
// "Edit" buttons). Per-field decisions consult Editable alone: an unlisted
// field is never editable, whatever EditingEnabled says. Producers keep the
// two signals consistent by always enumerating the full field list for roles
// with blanket rights.
type PermissionMetadata struct {
	Editable       []string `json:"editable"`
	EditingEnabled bool     `json:"editingEnabled"`
	UserRole       Role     `json:"userRole"`
}

// UnmarshalJSON degrades malformed metadata to the most restrictive state
// instead of failing. A garbage envelope must never grant edit rights, and
// must never break decoding of the resource it accompanies.
func (m *PermissionMetadata) UnmarshalJSON(b []byte) error {
	type plain PermissionMetadata
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*m = RestrictiveMetadata()
		return nil
	}
	*m = PermissionMetadata(p)
	if m.Editable == nil {
		m.Editable = []string{}
	}
	if !m.UserRole.Valid() {
		m.UserRole = RoleUser
	}
	return nil
}

// RestrictiveMetadata is the fail-safe default: no fields editable, blanket
// editing off, least-privileged role.
func RestrictiveMetadata() PermissionMetadata {
	return PermissionMetadata{Editable: []string{}, EditingEnabled: false, UserRole: RoleUser}
}

// ExtractMetadata normalizes an optional metadata envelope. Absent (nil) or
// partially-populated metadata resolves to the restrictive default.
func ExtractMetadata(meta *PermissionMetadata) PermissionMetadata {
	if meta == nil {
		return RestrictiveMetadata()
	}
	out := *meta
	if out.Editable == nil {
		out.Editable = []string{}
	}
	if !out.UserRole.Valid() {
		out.UserRole = RoleUser
	}
	return out
}

// CanEditField reports whether the named field may be mutated. Absent
// metadata means no. Membership in Editable is the only thing consulted.
func CanEditField(field string, meta *PermissionMetadata) bool {
	if meta == nil {
		return false
	}
	for _, f := range meta.Editable {
		if f == field {
			return true
		}
	}
	return false
}

// CanEditResource reports whether the caller may edit the resource at all,
// used for whole-resource affordances distinct from per-field checks.
func CanEditResource(meta *PermissionMetadata) bool {
	if meta == nil {
		return false
	}
	return meta.EditingEnabled || len(meta.Editable) > 0
}

// FilterToEditableFields returns a new map holding only the keys present in
// both form and editable. Keys missing from form are skipped, form is never
// mutated, and the result can only shrink on repeated application.
func FilterToEditableFields(form map[string]any, editable []string) map[string]any {
	out := make(map[string]any, len(editable))
	for _, f := range editable {
		if v, ok := form[f]; ok {
			out[f] = v
		}
	}
	return out
}

// FieldState is the UI affordance derived for a single form input.
type FieldState struct {
	Disabled bool   `json:"disabled"`
	ReadOnly bool   `json:"readOnly"`
	Title    string `json:"title"`
}

// FieldStateFor derives the input state for a field from its metadata.
func FieldStateFor(field string, meta *PermissionMetadata) FieldState {
	if CanEditField(field, meta) {
		return FieldState{Title: "You can edit this field"}
	}
	return FieldState{
		Disabled: true,
		ReadOnly: true,
		Title:    "You don't have permission to edit this field",
	}
}

// Envelope pairs a resource payload with its optional permission metadata.
// Every editable resource response uses this wrapper.
type Envelope[T any] struct {
	Data T                   `json:"data"`
	Meta *PermissionMetadata `json:"_metadata,omitempty"`
}
