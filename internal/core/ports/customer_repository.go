package ports

import (
	"context"

	"github.com/simpledough/storefront/internal/core/domain"
)

// CustomerUpdate holds the profile columns of a customer row.
type CustomerUpdate struct {
	FullName *string
	Phone    *string
	Address  *string
}

// CustomerRepository persists the customer profile row keyed by identity id.
type CustomerRepository interface {
	Insert(ctx context.Context, rec *domain.CustomerRecord) (*domain.CustomerRecord, error)
	// FindByUserID returns domain.ErrNotFound when no row exists for the identity.
	FindByUserID(ctx context.Context, userID string) (*domain.CustomerRecord, error)
	Update(ctx context.Context, customerID string, update CustomerUpdate) error
}
