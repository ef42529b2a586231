package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

// CatalogService serves the product list and resolves the product a cart line
// is built from, so prices always come from the catalog.
type CatalogService struct {
	products ports.ProductRepository
	log      zerolog.Logger
}

func NewCatalogService(products ports.ProductRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{products: products, log: log}
}

// Products returns the whole catalog. An empty catalog is an empty, non-nil list.
func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, remoteErr("list products", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	s.log.Debug().Int("products", len(products)).Msg("catalog loaded")
	return products, nil
}

// Product returns domain.ErrNotFound for an unknown id.
func (s *CatalogService) Product(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, remoteErr("find product "+id, err)
	}
	return p, nil
}

var _ ports.Catalog = (*CatalogService)(nil)
