package ports

import (
	"context"

	"github.com/simpledough/storefront/internal/core/domain"
)

// AddToCartInput holds the optional choices made when adding a product.
type AddToCartInput struct {
	Quantity int
	Flavors  []string
	Toppings map[domain.ToppingTier]string
}

// CartService is the identity-scoped cart of the running client.
type CartService interface {
	Items() []domain.CartItem
	Add(ctx context.Context, product domain.ProductSnapshot, in AddToCartInput) (domain.CartItem, error)
	Remove(ctx context.Context, itemID string) error
	UpdateQuantity(ctx context.Context, itemID string, quantity int) error
	Clear(ctx context.Context) error
	TotalPrice() domain.Money
	TotalItemCount() int
	CheckoutLines() []domain.CheckoutLine
}
