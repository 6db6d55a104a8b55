package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

func loginOK(w http.ResponseWriter) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token": "jwt-token",
		"session": map[string]any{
			"user_id":    "user-1",
			"email":      "alice@example.com",
			"role":       "user",
			"expires_at": time.Now().Add(time.Hour).Format(time.RFC3339),
		},
	})
}

func wireErr(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code, "code": code})
}

func newTestClient(t *testing.T, srv *httptest.Server, opts Options) *Client {
	t.Helper()
	opts.BaseURL = srv.URL
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClient_SignIn_Success(t *testing.T) {
	var mePath atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			loginOK(w)
		case "/v1/auth/me":
			if r.Header.Get("Authorization") != "Bearer jwt-token" {
				t.Errorf("role refresh not authenticated: %q", r.Header.Get("Authorization"))
			}
			mePath.Store(true)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"user_id": "user-1", "email": "alice@example.com", "role": "admin",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Options{})
	sess, err := c.SignIn(context.Background(), "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !mePath.Load() {
		t.Fatalf("role refresh never ran")
	}
	if sess.Role != RoleAdmin {
		t.Fatalf("role = %s, want admin from refresh", sess.Role)
	}
	if _, ok := c.Session(); !ok {
		t.Fatalf("client not signed in")
	}
}

func TestClient_SignIn_RoleRefreshFailureNonFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			loginOK(w)
		default:
			wireErr(w, http.StatusInternalServerError, domain.CodeServer)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Options{})
	sess, err := c.SignIn(context.Background(), "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("SignIn failed on role refresh error: %v", err)
	}
	if sess.Role != RoleUser {
		t.Fatalf("role = %s, want role from login response", sess.Role)
	}
}

func TestClient_SignIn_LocalValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("network traffic for invalid input")
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Options{})
	_, err := c.SignIn(context.Background(), "not-an-email", "pw")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestClient_SignIn_CooldownBlocksWithoutNetwork(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		wireErr(w, http.StatusUnauthorized, domain.CodeInvalidCredentials)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Options{})
	ctx := context.Background()

	for i := 0; i < domain.MaxLoginAttempts; i++ {
		_, err := c.SignIn(ctx, "alice@example.com", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: want ErrInvalidCredentials, got %v", i+1, err)
		}
	}
	if hits.Load() != int64(domain.MaxLoginAttempts) {
		t.Fatalf("server hits = %d", hits.Load())
	}

	// Blocked now: rejected locally, no request leaves the process.
	_, err := c.SignIn(ctx, "alice@example.com", "wrong")
	var rle *RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("want RateLimitError, got %v", err)
	}
	if rle.RetryAfterSeconds() <= 0 {
		t.Fatalf("cooldown not reported: %+v", rle)
	}
	if hits.Load() != int64(domain.MaxLoginAttempts) {
		t.Fatalf("blocked attempt reached the server")
	}

	// Another identifier is unaffected.
	if _, err := c.SignIn(ctx, "bob@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("independent identifier blocked: %v", err)
	}
}

func TestClient_SignIn_NonCredentialFailuresCountTowardCooldown(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		wireErr(w, http.StatusInternalServerError, domain.CodeServer)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Options{})
	ctx := context.Background()

	for i := 0; i < domain.MaxLoginAttempts; i++ {
		_, err := c.SignIn(ctx, "alice@example.com", "s3cret-pass")
		if !errors.Is(err, ErrServer) {
			t.Fatalf("attempt %d: want ErrServer, got %v", i+1, err)
		}
	}

	// A failing backend feeds the same cooldown as wrong passwords; the
	// sixth attempt never reaches the wire.
	_, err := c.SignIn(ctx, "alice@example.com", "s3cret-pass")
	var rle *RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("want RateLimitError, got %v", err)
	}
	if hits.Load() != int64(domain.MaxLoginAttempts) {
		t.Fatalf("server hits = %d, want %d", hits.Load(), domain.MaxLoginAttempts)
	}
}

func TestClient_SignIn_ServerRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":               "too many failed attempts",
			"code":                domain.CodeRateLimited,
			"retry_after_seconds": 90,
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Options{})
	_, err := c.SignIn(context.Background(), "alice@example.com", "s3cret-pass")
	var rle *RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("want RateLimitError, got %v", err)
	}
	if rle.RetryAfterSeconds() != 90 {
		t.Fatalf("retry after = %d", rle.RetryAfterSeconds())
	}
}

func TestClient_SignOut_LocalClearBeforeRemote(t *testing.T) {
	remoteStarted := make(chan struct{})
	release := make(chan struct{})
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/auth/login" {
			loginOK(w)
			return
		}
		if r.URL.Path == "/v1/auth/me" {
			_ = json.NewEncoder(w).Encode(map[string]any{"role": "user"})
			return
		}
		gotAuth.Store(r.Header.Get("Authorization"))
		close(remoteStarted)
		<-release
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Options{})
	if _, err := c.SignIn(context.Background(), "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.SignOut(context.Background())
	}()

	// While the remote call is still hanging, local state is already gone.
	<-remoteStarted
	if _, ok := c.Session(); ok {
		t.Errorf("session still present during remote sign-out")
	}
	close(release)
	wg.Wait()

	if gotAuth.Load() != "Bearer jwt-token" {
		t.Fatalf("logout sent without the old token: %v", gotAuth.Load())
	}

	// Signed-out sign-out is a no-op.
	c.SignOut(context.Background())
}

func TestClient_Expired401_IdempotentClear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			loginOK(w)
		case "/v1/auth/me":
			_ = json.NewEncoder(w).Encode(map[string]any{"role": "user"})
		default:
			wireErr(w, http.StatusUnauthorized, domain.CodeSessionExpired)
		}
	}))
	defer srv.Close()

	var expiredCalls atomic.Int64
	c := newTestClient(t, srv, Options{OnSessionExpired: func() {
		expiredCalls.Add(1)
	}})
	ctx := context.Background()
	if _, err := c.SignIn(ctx, "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if _, err := Get[domain.Bill](ctx, c, Bills, "b1"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired, got %v", err)
	}
	if c.IsAuthenticated() {
		t.Fatalf("session survived 401")
	}
	if c.Role() != RoleUser {
		t.Fatalf("role did not reset to least-privileged default")
	}

	// Second call is already signed out locally; the hook must not refire.
	if _, err := Get[domain.Bill](ctx, c, Bills, "b1"); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("want ErrNotSignedIn, got %v", err)
	}
	if expiredCalls.Load() != 1 {
		t.Fatalf("OnSessionExpired fired %d times", expiredCalls.Load())
	}

	// A fresh sign-in rearms the hook for the new session.
	if _, err := c.SignIn(ctx, "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("re-SignIn: %v", err)
	}
	if _, err := Get[domain.Bill](ctx, c, Bills, "b1"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired, got %v", err)
	}
	if expiredCalls.Load() != 2 {
		t.Fatalf("hook not rearmed: fired %d times", expiredCalls.Load())
	}
}

func TestClient_Update_LocalPermissionFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			loginOK(w)
		case "/v1/auth/me":
			_ = json.NewEncoder(w).Encode(map[string]any{"role": "user"})
		case "/v1/bills/b1":
			var patch map[string]any
			_ = json.NewDecoder(r.Body).Decode(&patch)
			if _, ok := patch["amount"]; ok {
				t.Errorf("non-editable field left the process: %v", patch)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "b1"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Options{})
	ctx := context.Background()
	if _, err := c.SignIn(ctx, "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	meta := &Metadata{Editable: []string{"description"}}

	// Patch with nothing editable fails locally.
	_, err := Update[domain.Bill](ctx, c, Bills, "b1", map[string]any{"amount": 1.0}, meta)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}

	// Mixed patch is reduced before the request is sent.
	_, err = Update[domain.Bill](ctx, c, Bills, "b1", map[string]any{
		"description": "paper",
		"amount":      1.0,
	}, meta)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestClient_Update_NilMetadataIsRestrictive(t *testing.T) {
	var patched atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			loginOK(w)
		case "/v1/auth/me":
			_ = json.NewEncoder(w).Encode(map[string]any{"role": "user"})
		default:
			patched.Store(true)
			t.Errorf("patch with unknown permissions left the process: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Options{})
	ctx := context.Background()
	if _, err := c.SignIn(ctx, "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	// No metadata means nothing is editable, same as an empty envelope.
	_, err := Update[domain.Bill](ctx, c, Bills, "b1", map[string]any{"amount": 9.0}, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if patched.Load() {
		t.Fatalf("unfiltered patch was submitted")
	}
}

func TestClient_NetworkAndTimeoutErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/auth/login" {
			loginOK(w)
			return
		}
		if r.URL.Path == "/v1/auth/me" {
			_ = json.NewEncoder(w).Encode(map[string]any{"role": "user"})
			return
		}
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Options{})
	ctx := context.Background()
	if _, err := c.SignIn(ctx, "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := Get[domain.Bill](shortCtx, c, Bills, "b1"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("want ErrTimeout, got %v", err)
	}

	// Server gone entirely: network error.
	down, _ := New(Options{BaseURL: "http://127.0.0.1:1"})
	down.mu.Lock()
	down.token, down.authed = "t", true
	down.mu.Unlock()
	if _, err := Get[domain.Bill](ctx, down, Bills, "b1"); !errors.Is(err, ErrNetwork) {
		t.Fatalf("want ErrNetwork, got %v", err)
	}
}
