package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clearbooks/ledger-api/internal/api/metrics"
	"github.com/clearbooks/ledger-api/internal/core/domain"
	"github.com/clearbooks/ledger-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Session sessionResponse `json:"session"`
}

type registerRequest struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      domain.Role `json:"role"`
	Confirmed bool        `json:"confirmed"`
}

// Login exchanges credentials for a bearer token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, sess, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.SignInTotal.WithLabelValues(domain.ErrorCode(err)).Inc()
		return err
	}

	metrics.SignInTotal.WithLabelValues("success").Inc()
	metrics.SessionsCreatedTotal.Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Token: token,
		Session: sessionResponse{
			UserID:    sess.UserID,
			Email:     sess.Email,
			Role:      sess.Role,
			ExpiresAt: sess.ExpiresAt,
		},
	})
}

// Logout invalidates the caller's session.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      204
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.SignOut(c.Request().Context(), ctxSessionID(c)); err != nil {
		return err
	}
	metrics.SessionsEndedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's session projection. Clients use it as the
// best-effort role lookup after sign-in.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	role, err := ctxRole(c)
	if err != nil {
		return err
	}
	userID, _ := c.Get("user_id").(string)
	email, _ := c.Get("email").(string)
	return c.JSON(http.StatusOK, sessionResponse{
		UserID: userID,
		Email:  email,
		Role:   role,
	})
}

// Register provisions a dashboard account. Admin only.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Confirmed: req.Confirmed,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}
