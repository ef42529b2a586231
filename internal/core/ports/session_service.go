package ports

import (
	"context"

	"github.com/simpledough/storefront/internal/core/domain"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Password string
}

// SessionService owns the current identity of the running client.
type SessionService interface {
	State() domain.SessionState
	CurrentIdentity() *domain.Identity
	Can(c domain.Capability) bool
	Register(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	// ProvisionProfile retries the customer-record step of a registration
	// whose provider-side identity already exists.
	ProvisionProfile(ctx context.Context, identityID string, in RegisterInput) error
	Login(ctx context.Context, email, password string) (*domain.Identity, error)
	// Logout always clears the session; a non-nil error is a warning only.
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (*domain.Identity, error)
}

// ProfileEditor is the credential-gated profile form.
type ProfileEditor interface {
	State() domain.GateState
	BeginSensitiveEdit() error
	Verify(ctx context.Context, currentPassword string) (bool, error)
	Cancel()
	Submit(ctx context.Context, req domain.ProfileUpdateRequest) (*domain.Identity, error)
	CredentialDisplay() string
}
