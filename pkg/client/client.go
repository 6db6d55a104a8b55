// Package client is the Go SDK for the ledger API. It carries the guard
// behaviour well-behaved callers are expected to have: a local failed-login
// cooldown that rejects blocked attempts before any network traffic, a single
// writer for the bearer token, and idempotent local sign-out when the server
// reports the session gone.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/clearbooks/ledger-api/internal/core/domain"
	"github.com/clearbooks/ledger-api/internal/core/service"
)

// Taxonomy errors returned by the SDK. Branch with errors.Is.
var (
	ErrInvalidInput        = domain.ErrInvalidInput
	ErrInvalidCredentials  = domain.ErrInvalidCredentials
	ErrEmailUnconfirmed    = domain.ErrEmailUnconfirmed
	ErrRateLimited         = domain.ErrRateLimited
	ErrUpstreamRateLimited = domain.ErrUpstreamRateLimited
	ErrTimeout             = domain.ErrTimeout
	ErrNetwork             = domain.ErrNetwork
	ErrServer              = domain.ErrServer
	ErrServiceUnavailable  = domain.ErrServiceUnavailable
	ErrUnknown             = domain.ErrUnknown
	ErrNotFound            = domain.ErrNotFound
	ErrForbidden           = domain.ErrForbidden
	ErrSessionExpired      = domain.ErrSessionExpired
	ErrNotSignedIn         = errors.New("not signed in")
)

// RateLimitError carries the remaining cooldown of a rejected sign-in.
type RateLimitError = domain.RateLimitError

// Metadata is the permission block attached to API responses.
type Metadata = domain.PermissionMetadata

// FieldState describes how a field should render for the current caller.
type FieldState = domain.FieldState

// Envelope is a single document plus its permission metadata.
type Envelope[T any] = domain.Envelope[T]

// Role identifies the caller's privilege level.
type Role = domain.Role

const (
	RoleAdmin = domain.RoleAdmin
	RoleUser  = domain.RoleUser
)

const (
	defaultSignInTimeout  = 60 * time.Second
	defaultSignOutTimeout = 10 * time.Second
)

// Options configures a Client. Only BaseURL is required.
type Options struct {
	BaseURL string
	// HTTPClient defaults to a plain http.Client.
	HTTPClient *http.Client
	// SignInTimeout bounds the credential exchange. Defaults to 60s.
	SignInTimeout time.Duration
	// OnSessionExpired is called at most once per sign-in when the server
	// rejects the session. The client has already cleared its local state
	// when the hook runs.
	OnSessionExpired func()
}

// Client is a ledger API client. It is safe for concurrent use; the bearer
// token has a single writer (SignIn) and is cleared atomically on sign-out
// or session expiry.
type Client struct {
	baseURL       string
	httpc         *http.Client
	limiter       *service.LoginLimiter
	signInTimeout time.Duration

	onSessionExpired func()

	mu      sync.Mutex
	token   string
	session Session
	authed  bool
	// epoch counts sign-ins so an expiry seen by several in-flight requests
	// fires the hook once.
	epoch        uint64
	expiredEpoch uint64
}

// Session is the client's view of the signed-in session.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("client: BaseURL is required")
	}
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{}
	}
	timeout := opts.SignInTimeout
	if timeout <= 0 {
		timeout = defaultSignInTimeout
	}
	return &Client{
		baseURL:          opts.BaseURL,
		httpc:            httpc,
		limiter:          service.NewLoginLimiter(),
		signInTimeout:    timeout,
		onSessionExpired: opts.OnSessionExpired,
	}, nil
}

// Session returns a copy of the current session and whether one is active.
func (c *Client) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, c.authed
}

// IsAuthenticated reports whether a session is active locally. The server
// may still reject the token; that rejection clears this flag.
func (c *Client) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authed
}

// Role returns the current session's role, or RoleUser when signed out.
// Callers use it with CanEditField before rendering forms.
func (c *Client) Role() Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.authed {
		return RoleUser
	}
	return c.session.Role
}

// CanEditField reports whether the named field may be mutated given meta.
// Absent metadata means no.
func CanEditField(field string, meta *Metadata) bool {
	return domain.CanEditField(field, meta)
}

// CanEditResource reports whether meta permits editing anything at all.
func CanEditResource(meta *Metadata) bool {
	return domain.CanEditResource(meta)
}

// ExtractMetadata normalizes an optional metadata envelope, degrading to the
// restrictive default when absent.
func ExtractMetadata(meta *Metadata) Metadata {
	return domain.ExtractMetadata(meta)
}

// FilterToEditableFields reduces a form patch to the fields listed editable.
func FilterToEditableFields(form map[string]any, editable []string) map[string]any {
	return domain.FilterToEditableFields(form, editable)
}

// FieldStateFor classifies a form field as editable or locked.
func FieldStateFor(field string, meta *Metadata) FieldState {
	return domain.FieldStateFor(field, meta)
}

type wireError struct {
	Error             string `json:"error"`
	Code              string `json:"code"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
}

// bearer returns the current token and epoch for an authenticated request.
func (c *Client) bearer() (string, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.authed {
		return "", 0, ErrNotSignedIn
	}
	return c.token, c.epoch, nil
}

// clearSession drops local credentials if they still belong to epoch. The
// expiry hook fires at most once per epoch no matter how many requests
// observe the same 401.
func (c *Client) clearSession(epoch uint64) {
	c.mu.Lock()
	shouldNotify := c.authed && c.epoch == epoch && c.expiredEpoch != epoch
	if c.authed && c.epoch == epoch {
		c.token = ""
		c.session = Session{}
		c.authed = false
		c.expiredEpoch = epoch
	}
	hook := c.onSessionExpired
	c.mu.Unlock()

	if shouldNotify && hook != nil {
		hook()
	}
}

// do performs one API request. Transport failures and error envelopes are
// both translated into taxonomy errors.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool, out any) error {
	var token string
	var epoch uint64
	if authed {
		var err error
		token, epoch, err = c.bearer()
		if err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		return ErrNetwork
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusMultipleChoices {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decode response: %w", err)
		}
		return nil
	}

	if authed && resp.StatusCode == http.StatusUnauthorized {
		c.clearSession(epoch)
	}
	return c.decodeError(resp)
}

func (c *Client) decodeError(resp *http.Response) error {
	var we wireError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&we)

	if we.Code == domain.CodeRateLimited {
		return &RateLimitError{RetryAfter: time.Duration(we.RetryAfterSeconds) * time.Second}
	}
	if we.Code != "" {
		return domain.ErrorFromCode(we.Code)
	}

	// No envelope, fall back to the status code.
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return ErrInvalidInput
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrTimeout
	case http.StatusTooManyRequests:
		return ErrUpstreamRateLimited
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return ErrServiceUnavailable
	case http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrUnknown
	}
}
