package ports

import (
	"context"

	"github.com/simpledough/storefront/internal/core/domain"
)

// ProductRepository reads the product catalog.
type ProductRepository interface {
	// List returns every product ordered by name.
	List(ctx context.Context) ([]domain.Product, error)
	// FindByID returns domain.ErrNotFound when no product has id.
	FindByID(ctx context.Context, id string) (*domain.Product, error)
}

// Catalog is the read side of the product catalog exposed to clients.
type Catalog interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
}
