package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clearbooks/ledger-api/internal/core/domain"
	"github.com/clearbooks/ledger-api/internal/core/ports"
)

type stubAuthService struct {
	signInFn  func(ctx context.Context, email, password string) (string, *domain.Session, error)
	signOutFn func(ctx context.Context, sessionID string) error
	regFn     func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (string, *domain.Session, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubAuthService) SignOut(ctx context.Context, sessionID string) error {
	return s.signOutFn(ctx, sessionID)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.regFn(ctx, input)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		signInFn: func(_ context.Context, email, password string) (string, *domain.Session, error) {
			if email != "alice@example.com" || password != "s3cret-pass" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return "jwt-token", &domain.Session{
				ID:        "sess-1",
				UserID:    "user-1",
				Email:     email,
				Role:      domain.RoleAdmin,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	body := strings.NewReader(`{"email":"alice@example.com","password":"s3cret-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Token   string `json:"token"`
		Session struct {
			UserID string      `json:"user_id"`
			Role   domain.Role `json:"role"`
		} `json:"session"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "jwt-token" {
		t.Fatalf("token = %s", resp.Token)
	}
	if resp.Session.Role != domain.RoleAdmin {
		t.Fatalf("role = %s", resp.Session.Role)
	}
}

func TestAuthHandler_Login_PropagatesTaxonomyError(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		signInFn: func(_ context.Context, _, _ string) (string, *domain.Session, error) {
			return "", nil, &domain.RateLimitError{RetryAfter: 90 * time.Second}
		},
	}
	h := NewAuthHandler(stub)

	body := strings.NewReader(`{"email":"alice@example.com","password":"pw"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("want rate-limit error passed to the error handler, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := echo.New()
	var deleted string
	stub := &stubAuthService{
		signOutFn: func(_ context.Context, sessionID string) error {
			deleted = sessionID
			return nil
		},
	}
	h := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session_id", "sess-1")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "sess-1" {
		t.Fatalf("signed out wrong session: %q", deleted)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")
	c.Set("email", "alice@example.com")
	c.Set("role", domain.RoleUser)

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		UserID string      `json:"user_id"`
		Email  string      `json:"email"`
		Role   domain.Role `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UserID != "user-1" || resp.Role != domain.RoleUser {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Register(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		regFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Role != domain.RoleUser || !input.Confirmed {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "user-2", Email: input.Email}, nil
		},
	}
	h := NewAuthHandler(stub)

	body := strings.NewReader(`{"email":"bob@example.com","password":"hunter2-long","role":"user","confirmed":true}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}
