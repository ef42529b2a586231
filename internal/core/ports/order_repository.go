package ports

import (
	"context"

	"github.com/simpledough/storefront/internal/core/domain"
)

// OrderRepository reads the nested order graph of a customer.
type OrderRepository interface {
	// ListByCustomer returns orders newest first, each with its items in stored
	// order and the referenced product joined when it still exists.
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}
