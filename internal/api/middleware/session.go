package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simpledough/storefront/internal/core/domain"
)

// ContextIdentityKey is the echo.Context key holding the current identity id.
const ContextIdentityKey = "identity_id"

// SessionChecker is the part of the session service the guard needs.
type SessionChecker interface {
	CurrentIdentity() *domain.Identity
	Can(c domain.Capability) bool
}

// RequireSession rejects requests without an active session (401) and, when
// capabilities are given, requests whose role lacks any of them (403).
func RequireSession(s SessionChecker, required ...domain.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := s.CurrentIdentity()
			if identity == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "login required"})
			}
			for _, capability := range required {
				if !s.Can(capability) {
					return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
				}
			}
			c.Set(ContextIdentityKey, identity.ID)
			return next(c)
		}
	}
}
