package ports

import (
	"context"

	"github.com/simpledough/storefront/internal/core/domain"
)

// IdentityMetadata is the provider-held profile metadata attached to an identity.
type IdentityMetadata struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Role    string `json:"role,omitempty"`
}

// ProviderUser is the provider's view of an identity: core fields plus metadata.
type ProviderUser struct {
	ID       string
	Email    string
	Metadata IdentityMetadata
}

// ProviderSession is a session issued by the identity provider.
// User is nil (and Token empty) when the provider still requires confirmation.
type ProviderSession struct {
	Token string
	User  *ProviderUser
}

// NewIdentity carries the data needed to allocate an identity.
type NewIdentity struct {
	Email    string
	Password string
	Metadata IdentityMetadata
}

// IdentityUpdate is a partial update. Nil fields are left untouched.
type IdentityUpdate struct {
	Email    *string
	Password *string
	Metadata *IdentityMetadata
}

// IdentityProvider is the remote identity service. Implementations return
// domain.ErrIdentityExists for duplicate emails and domain.ErrAuthenticationFailed
// for rejected credentials or tokens; any other error is a transport failure.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, in NewIdentity) (*ProviderSession, error)
	Authenticate(ctx context.Context, email, password string) (*ProviderSession, error)
	CurrentIdentity(ctx context.Context, token string) (*ProviderUser, error)
	UpdateIdentity(ctx context.Context, token string, update IdentityUpdate) (*ProviderUser, error)
	InvalidateSession(ctx context.Context, token string) error
}

// CredentialVerifier proves the current user knows their credential without
// replacing the active session.
type CredentialVerifier interface {
	VerifyCredential(ctx context.Context, password string) bool
}

// IdentityObserver is notified after the current identity changes. A nil
// identity means nobody is logged in.
type IdentityObserver interface {
	IdentityChanged(ctx context.Context, identity *domain.Identity)
}
