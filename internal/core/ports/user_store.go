package ports

import (
	"context"
	"time"
)

// UserAccount is the identity provider's own record of an identity.
type UserAccount struct {
	ID           string
	Email        string
	PasswordHash string
	Metadata     IdentityMetadata
	// Confirmed is false while an email confirmation is outstanding.
	Confirmed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserAccountUpdate changes only the non-nil fields.
type UserAccountUpdate struct {
	Email        *string
	PasswordHash *string
	Metadata     *IdentityMetadata
}

// UserStore persists provider accounts. Create and Update return
// domain.ErrIdentityExists when the email is taken; lookups return
// domain.ErrNotFound.
type UserStore interface {
	Create(ctx context.Context, account *UserAccount) (*UserAccount, error)
	FindByEmail(ctx context.Context, email string) (*UserAccount, error)
	FindByID(ctx context.Context, id string) (*UserAccount, error)
	Update(ctx context.Context, id string, update UserAccountUpdate) (*UserAccount, error)
}

// TokenRevocations remembers invalidated provider sessions until they would
// have expired anyway.
type TokenRevocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
