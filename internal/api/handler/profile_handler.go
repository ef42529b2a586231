package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simpledough/storefront/internal/api/metrics"
	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

// ProfileHandler serves the profile form. Email and password edits go
// through the verification gate of the editor.
type ProfileHandler struct {
	session ports.SessionService
	editor  ports.ProfileEditor
}

func NewProfileHandler(session ports.SessionService, editor ports.ProfileEditor) *ProfileHandler {
	return &ProfileHandler{session: session, editor: editor}
}

func (h *ProfileHandler) gate() gateResponse {
	return gateResponse{GateState: h.editor.State(), Credential: h.editor.CredentialDisplay()}
}

// Get returns the current profile and gate state.
//
// @Summary      Current profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, profileResponse{
		Identity:     h.session.CurrentIdentity(),
		gateResponse: h.gate(),
	})
}

// BeginSensitiveEdit starts an email/password edit.
//
// @Summary      Begin sensitive edit
// @Tags         profile
// @Produce      json
// @Success      200  {object}  gateResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/profile/sensitive [post]
func (h *ProfileHandler) BeginSensitiveEdit(c echo.Context) error {
	if err := h.editor.BeginSensitiveEdit(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.gate())
}

// Verify re-proves the current password.
//
// @Summary      Verify current password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "Current password"
// @Success      200   {object}  verifyResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/profile/verify [post]
func (h *ProfileHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	ok, err := h.editor.Verify(c.Request().Context(), req.CurrentPassword)
	if err != nil {
		return err
	}
	result := "failed"
	if ok {
		result = "passed"
	}
	metrics.GateVerificationsTotal.WithLabelValues(result).Inc()
	return c.JSON(http.StatusOK, verifyResponse{Verified: ok, gateResponse: h.gate()})
}

// Cancel discards a pending sensitive edit.
//
// @Summary      Cancel sensitive edit
// @Tags         profile
// @Produce      json
// @Success      200  {object}  gateResponse
// @Router       /v1/profile/sensitive [delete]
func (h *ProfileHandler) Cancel(c echo.Context) error {
	h.editor.Cancel()
	return c.JSON(http.StatusOK, h.gate())
}

// Update submits the profile form.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Changed fields"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	identity, err := h.editor.Submit(c.Request().Context(), domain.ProfileUpdateRequest{
		Name:            req.Name,
		Phone:           req.Phone,
		Address:         req.Address,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVerificationRequired):
			metrics.GateRejectionsTotal.WithLabelValues("verification_required").Inc()
		case errors.Is(err, domain.ErrPasswordMismatch):
			metrics.GateRejectionsTotal.WithLabelValues("password_mismatch").Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{Identity: identity, gateResponse: h.gate()})
}
