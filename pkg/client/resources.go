package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Resource names accepted by the generic operations.
const (
	Bills         = "bills"
	Cards         = "cards"
	Transactions  = "transactions"
	Budgets       = "budgets"
	Salaries      = "salaries"
	PettyExpenses = "petty_expenses"
	Reminders     = "reminders"
	Employees     = "employees"
)

// Pagination reports the window a list response covers.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Page is one page of documents plus the caller's permission metadata.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Meta       *Metadata  `json:"_metadata,omitempty"`
	Pagination Pagination `json:"pagination"`
}

// Get fetches a single document with its permission metadata.
func Get[T any](ctx context.Context, c *Client, resource, id string) (Envelope[T], error) {
	var out Envelope[T]
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/%s/%s", resource, url.PathEscape(id)), nil, true, &out)
	return out, err
}

// List fetches one page of documents. Zero page or limit means server
// defaults.
func List[T any](ctx context.Context, c *Client, resource string, page, limit int) (Page[T], error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	path := "/v1/" + resource
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out Page[T]
	err := c.do(ctx, http.MethodGet, path, nil, true, &out)
	return out, err
}

// Create inserts a new document and returns it as stored.
func Create[T any](ctx context.Context, c *Client, resource string, body any) (Envelope[T], error) {
	var out Envelope[T]
	err := c.do(ctx, http.MethodPost, "/v1/"+resource, body, true, &out)
	return out, err
}

// Update applies a partial update. The patch is reduced to the fields meta
// lists as editable before it leaves the process; absent metadata degrades
// to the restrictive default, so a caller who skipped the fetch gets
// ErrForbidden rather than an unfiltered submission. A patch with nothing
// editable left fails the same way. The server applies the same filter
// regardless.
func Update[T any](ctx context.Context, c *Client, resource, id string, patch map[string]any, meta *Metadata) (Envelope[T], error) {
	var out Envelope[T]
	if len(patch) == 0 {
		return out, ErrInvalidInput
	}
	m := ExtractMetadata(meta)
	patch = FilterToEditableFields(patch, m.Editable)
	if len(patch) == 0 {
		return out, ErrForbidden
	}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/%s/%s", resource, url.PathEscape(id)), patch, true, &out)
	return out, err
}

// Delete removes a document. Admin only.
func Delete(ctx context.Context, c *Client, resource, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/%s/%s", resource, url.PathEscape(id)), nil, true, nil)
}
