package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationFailed is returned when the provider rejects credentials.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrInvalidCredentials is kept as the login-facing name of ErrAuthenticationFailed.
	ErrInvalidCredentials = ErrAuthenticationFailed

	ErrIdentityExists            = errors.New("identity already exists")
	ErrRegistrationIncomplete    = errors.New("registration incomplete: confirm your email before logging in")
	ErrProfileProvisioningFailed = errors.New("profile provisioning failed")

	ErrVerificationRequired = errors.New("current password verification required to change email or password")
	ErrPasswordMismatch     = errors.New("passwords do not match")

	ErrRemoteUnavailable = errors.New("remote service unavailable")
	ErrNoActiveSession   = errors.New("no active session")
	ErrSessionSuperseded = errors.New("session change superseded by a newer login or logout")
	ErrForbidden         = errors.New("access forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
)

// ProvisioningError reports that the provider-side identity exists but the
// customer record could not be written. Callers retry only the second step.
type ProvisioningError struct {
	IdentityID string
	Err        error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("%s for identity %s: %v", ErrProfileProvisioningFailed, e.IdentityID, e.Err)
}

func (e *ProvisioningError) Unwrap() []error {
	return []error{ErrProfileProvisioningFailed, e.Err}
}
