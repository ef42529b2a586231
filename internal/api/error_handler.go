package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/simpledough/storefront/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Order matters: a provisioning failure also wraps the transport error.
	switch {
	case errors.Is(err, domain.ErrProfileProvisioningFailed):
		return http.StatusBadGateway, domain.ErrProfileProvisioningFailed.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusBadRequest, domain.ErrPasswordMismatch.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrNoActiveSession):
		return http.StatusUnauthorized, domain.ErrNoActiveSession.Error()
	case errors.Is(err, domain.ErrVerificationRequired):
		return http.StatusForbidden, domain.ErrVerificationRequired.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrIdentityExists):
		return http.StatusConflict, "an account with this email already exists"
	case errors.Is(err, domain.ErrSessionSuperseded):
		return http.StatusConflict, domain.ErrSessionSuperseded.Error()
	case errors.Is(err, domain.ErrRegistrationIncomplete):
		return http.StatusUnprocessableEntity, domain.ErrRegistrationIncomplete.Error()
	case errors.Is(err, domain.ErrRemoteUnavailable):
		log.Warn().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("remote dependency unavailable")
		return http.StatusServiceUnavailable, domain.ErrRemoteUnavailable.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
