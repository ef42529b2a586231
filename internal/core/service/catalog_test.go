package service

import (
	"context"
	"errors"
	"testing"

	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

func newTestCatalog() (*CatalogService, *stubProductRepo) {
	repo := &stubProductRepo{products: []domain.Product{
		{ID: "p-ens", Name: "Ensaymada", Price: 3500, Category: "pastry"},
		{ID: "p-pan", Name: "Pandesal", Price: 800, Category: "bread"},
	}}
	return NewCatalogService(repo, discardLogger), repo
}

func TestCatalogService_Products(t *testing.T) {
	catalog, _ := newTestCatalog()

	products, err := catalog.Products(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 || products[0].ID != "p-ens" {
		t.Fatalf("unexpected catalog: %+v", products)
	}
}

func TestCatalogService_Products_EmptyIsNonNil(t *testing.T) {
	catalog := NewCatalogService(&stubProductRepo{}, discardLogger)

	products, err := catalog.Products(context.Background())
	if err != nil || products == nil || len(products) != 0 {
		t.Fatalf("expected empty non-nil list, got %v (err=%v)", products, err)
	}
}

func TestCatalogService_Products_TransportError(t *testing.T) {
	catalog, repo := newTestCatalog()
	repo.err = errTransport

	if _, err := catalog.Products(context.Background()); !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
}

func TestCatalogService_Product(t *testing.T) {
	catalog, _ := newTestCatalog()
	ctx := context.Background()

	p, err := catalog.Product(ctx, " p-pan ")
	if err != nil || p.Price != 800 {
		t.Fatalf("expected pandesal, got %+v (err=%v)", p, err)
	}
	if _, err := catalog.Product(ctx, "p-gone"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := catalog.Product(ctx, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCatalogService_CartLineUsesCatalogPrice(t *testing.T) {
	catalog, _ := newTestCatalog()
	c, _ := newTestCart()
	ctx := context.Background()

	p, err := catalog.Product(ctx, "p-ens")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	item, err := c.Add(ctx, p.Snapshot(), ports.AddToCartInput{Quantity: 3})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.Product.Price != 3500 || item.LineTotal != 10500 {
		t.Fatalf("line should carry the catalog price: %+v", item)
	}
}
