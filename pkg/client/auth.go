package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/clearbooks/ledger-api/internal/core/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string  `json:"token"`
	Session Session `json:"session"`
}

// SignIn validates credentials locally, consults the cooldown guard, and
// exchanges them with the server. A blocked identifier is rejected before any
// network traffic. On success the bearer token is installed before the
// best-effort role refresh runs, so the refresh itself is authenticated and
// its failure cannot undo the sign-in.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := service.ValidateCredentials(email, password); err != nil {
		return Session{}, err
	}

	if c.limiter.IsLimited(ctx, email) {
		return Session{}, &RateLimitError{RetryAfter: c.limiter.RemainingCooldown(ctx, email)}
	}

	exCtx, cancel := context.WithTimeout(ctx, c.signInTimeout)
	defer cancel()

	var resp loginResponse
	if err := c.do(exCtx, http.MethodPost, "/v1/auth/login", loginRequest{Email: email, Password: password}, false, &resp); err != nil {
		// Every failed exchange counts against the cooldown, whatever the
		// category: retry storms against a struggling backend look the same
		// as guessed passwords from here. A caller cancelling its own
		// context is the one exception.
		if !errors.Is(err, context.Canceled) {
			c.limiter.RecordAttempt(ctx, email)
		}
		return Session{}, err
	}

	c.limiter.Reset(ctx, email)

	c.mu.Lock()
	c.token = resp.Token
	c.session = resp.Session
	c.authed = true
	c.epoch++
	c.mu.Unlock()

	// The login response carries the role the server knew at mint time; a
	// quick /me round trip picks up an assignment that landed after it.
	c.refreshSession(ctx)

	sess, _ := c.Session()
	return sess, nil
}

// refreshSession is best-effort: any failure leaves the session as minted.
func (c *Client) refreshSession(ctx context.Context) {
	rCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var sess Session
	if err := c.do(rCtx, http.MethodGet, "/v1/auth/me", nil, true, &sess); err != nil {
		return
	}
	c.mu.Lock()
	if c.authed {
		c.session.Role = sess.Role
	}
	c.mu.Unlock()
}

// SignOut clears local credentials first, then tells the server. The remote
// call is best-effort with a short timeout; sign-out never fails from the
// caller's point of view. Calling it signed-out is a no-op.
func (c *Client) SignOut(ctx context.Context) {
	c.mu.Lock()
	token := c.token
	wasAuthed := c.authed
	c.token = ""
	c.session = Session{}
	c.authed = false
	c.mu.Unlock()

	if !wasAuthed {
		return
	}

	rCtx, cancel := context.WithTimeout(ctx, defaultSignOutTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rCtx, http.MethodPost, c.baseURL+"/v1/auth/logout", nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
