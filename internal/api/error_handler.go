package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Code is
// the stable machine-readable category; RetryAfterSeconds is set only for
// rate-limit rejections so clients can render a countdown.
type errorResponse struct {
	Error             string `json:"error"`
	Code              string `json:"code,omitempty"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps taxonomy errors to their HTTP status codes and wire codes.
//   - Attaches Retry-After for rate-limit rejections.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var rle *domain.RateLimitError
		if errors.As(err, &rle) {
			secs := rle.RetryAfterSeconds()
			c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
			_ = c.JSON(http.StatusTooManyRequests, errorResponse{
				Error:             rle.Error(),
				Code:              domain.CodeRateLimited,
				RetryAfterSeconds: secs,
			})
			return
		}

		code, resp := resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Taxonomy errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, taxonomyResponse(err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, taxonomyResponse(err)
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, taxonomyResponse(err)
	case errors.Is(err, domain.ErrEmailUnconfirmed):
		return http.StatusForbidden, taxonomyResponse(err)
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, taxonomyResponse(err)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, taxonomyResponse(err)
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, taxonomyResponse(err)
	case errors.Is(err, domain.ErrUpstreamRateLimited):
		return http.StatusTooManyRequests, taxonomyResponse(err)
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout, taxonomyResponse(err)
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, taxonomyResponse(err)
	case errors.Is(err, domain.ErrServer):
		return http.StatusInternalServerError, taxonomyResponse(err)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{
		Error: "internal server error",
		Code:  domain.CodeServer,
	}
}

func taxonomyResponse(err error) errorResponse {
	return errorResponse{Error: err.Error(), Code: domain.ErrorCode(err)}
}
