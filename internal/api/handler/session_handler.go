package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simpledough/storefront/internal/api/metrics"
	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

var knownCapabilities = []domain.Capability{
	domain.CapPlaceOrder,
	domain.CapViewOwnOrders,
	domain.CapEditProfile,
	domain.CapManageCatalog,
	domain.CapManageAllOrder,
}

type SessionHandler struct {
	session ports.SessionService
}

func NewSessionHandler(session ports.SessionService) *SessionHandler {
	return &SessionHandler{session: session}
}

func (h *SessionHandler) snapshot() sessionResponse {
	caps := make([]domain.Capability, 0, len(knownCapabilities))
	for _, c := range knownCapabilities {
		if h.session.Can(c) {
			caps = append(caps, c)
		}
	}
	return sessionResponse{
		State:        h.session.State(),
		Identity:     h.session.CurrentIdentity(),
		Capabilities: caps,
	}
}

// Current returns the session state and identity.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /v1/session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, h.snapshot())
}

// Register creates an identity and its customer record, then logs in.
//
// @Summary      Register
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Sign-up form"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  provisioningFailedResponse
// @Router       /v1/session/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	_, err := h.session.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	})
	metrics.SessionTransitionsTotal.WithLabelValues("register", resultLabel(err)).Inc()
	if err != nil {
		var perr *domain.ProvisioningError
		if errors.As(err, &perr) {
			return c.JSON(http.StatusBadGateway, provisioningFailedResponse{
				Error:      domain.ErrProfileProvisioningFailed.Error(),
				IdentityID: perr.IdentityID,
			})
		}
		return err
	}
	return c.JSON(http.StatusCreated, h.snapshot())
}

// Provision retries writing the customer record of an existing identity.
//
// @Summary      Retry profile provisioning
// @Tags         session
// @Accept       json
// @Param        body  body  provisionRequest  true  "Identity and profile"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  provisioningFailedResponse
// @Router       /v1/session/provision [post]
func (h *SessionHandler) Provision(c echo.Context) error {
	var req provisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	err := h.session.ProvisionProfile(c.Request().Context(), req.IdentityID, ports.RegisterInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	metrics.SessionTransitionsTotal.WithLabelValues("provision", resultLabel(err)).Inc()
	if err != nil {
		var perr *domain.ProvisioningError
		if errors.As(err, &perr) {
			return c.JSON(http.StatusBadGateway, provisioningFailedResponse{
				Error:      domain.ErrProfileProvisioningFailed.Error(),
				IdentityID: perr.IdentityID,
			})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Login authenticates and makes the identity current.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	_, err := h.session.Login(c.Request().Context(), req.Email, req.Password)
	metrics.SessionTransitionsTotal.WithLabelValues("login", resultLabel(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.snapshot())
}

// Logout always succeeds locally. A failed remote invalidation is reported
// in the warning field.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /v1/session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	err := h.session.Logout(c.Request().Context())
	metrics.SessionTransitionsTotal.WithLabelValues("logout", resultLabel(err)).Inc()

	resp := h.snapshot()
	if err != nil {
		metrics.LogoutWarningsTotal.Inc()
		resp.Warning = "signed out locally; the remote session could not be invalidated"
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh re-reads the identity from the provider. Failure ends the session.
//
// @Summary      Refresh session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/session/refresh [post]
func (h *SessionHandler) Refresh(c echo.Context) error {
	_, err := h.session.Refresh(c.Request().Context())
	metrics.SessionTransitionsTotal.WithLabelValues("refresh", resultLabel(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.snapshot())
}

// resultLabel classifies err for metric labels.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrProfileProvisioningFailed):
		return "provisioning_failed"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrIdentityExists):
		return "identity_exists"
	case errors.Is(err, domain.ErrRegistrationIncomplete):
		return "registration_incomplete"
	case errors.Is(err, domain.ErrNoActiveSession):
		return "no_session"
	case errors.Is(err, domain.ErrSessionSuperseded):
		return "superseded"
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return "remote_unavailable"
	}
	return "error"
}
