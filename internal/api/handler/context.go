package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

// ctxRole extracts the role injected by the Auth middleware and performs a
// fast-fail check before any service call: a missing role means the
// middleware never ran, so the request is rejected rather than resolved
// with a zero-value role.
func ctxRole(c echo.Context) (domain.Role, error) {
	role, _ := c.Get("role").(domain.Role)
	if role == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return role, nil
}

// ctxSessionID returns the session id set by the Auth middleware.
func ctxSessionID(c echo.Context) string {
	sid, _ := c.Get("session_id").(string)
	return sid
}
