package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/clearbooks/ledger-api/internal/core/domain"
	"github.com/clearbooks/ledger-api/internal/core/ports"
)

// Auth validates the bearer token and resolves its session. The token is an
// HS256 JWT carrying the session id; the session store stays authoritative,
// so a signed-out or expired session yields 401 even for a well-formed
// token. Session expiry is a normal flow here, not an exceptional one.
func Auth(jwtSecret string, sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sid, _ := claims["sid"].(string)
			sess, err := sessions.Get(c.Request().Context(), sid)
			if errors.Is(err, domain.ErrSessionExpired) {
				// Coded so SDK clients can tell a revoked session from
				// bad credentials.
				return domain.ErrSessionExpired
			}
			if err != nil {
				// Store outage, not a revoked session. A 401 here would
				// make every client drop its local session.
				return domain.ErrServiceUnavailable
			}

			c.Set("session_id", sess.ID)
			c.Set("user_id", sess.UserID)
			c.Set("email", sess.Email)
			c.Set("role", sess.Role)

			return next(c)
		}
	}
}
