package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/simpledough/storefront/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&domain.ProvisioningError{IdentityID: "u1", Err: domain.ErrRemoteUnavailable}, http.StatusBadGateway},
		{fmt.Errorf("%w: name is required", domain.ErrInvalidInput), http.StatusBadRequest},
		{domain.ErrPasswordMismatch, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrNoActiveSession, http.StatusUnauthorized},
		{domain.ErrVerificationRequired, http.StatusForbidden},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrIdentityExists, http.StatusConflict},
		{domain.ErrSessionSuperseded, http.StatusConflict},
		{domain.ErrRegistrationIncomplete, http.StatusUnprocessableEntity},
		{fmt.Errorf("login: %w: %w", domain.ErrRemoteUnavailable, errors.New("dial tcp")), http.StatusServiceUnavailable},
		{echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	handle := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		handle(tc.err, c)
		if rec.Code != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	handle := NewHTTPErrorHandler(zerolog.Nop())
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	handle(errors.New("mongo: secret connection string"), c)

	if got := rec.Body.String(); got != "{\"error\":\"internal server error\"}\n" {
		t.Fatalf("unexpected body: %q", got)
	}
}
