package ports

import (
	"context"
	"time"

	"github.com/simpledough/storefront/internal/core/domain"
)

// DisplayProduct is the product shown next to an order line.
type DisplayProduct struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// DisplayLineItem carries only what the order history view renders.
// Product is nil when the referenced product no longer exists.
type DisplayLineItem struct {
	ID        string                        `json:"id"`
	Product   *DisplayProduct               `json:"product"`
	Quantity  int                           `json:"quantity"`
	LineTotal domain.Money                  `json:"line_total"`
	Flavors   []string                      `json:"flavors"`
	Toppings  map[domain.ToppingTier]string `json:"toppings"`
}

// DisplayOrder is an order projected for the history view.
type DisplayOrder struct {
	ID             string             `json:"id"`
	ShortRef       string             `json:"short_ref"`
	PlacedAt       time.Time          `json:"placed_at"`
	Status         domain.OrderStatus `json:"status"`
	StatusLabel    string             `json:"status_label"`
	Total          domain.Money       `json:"total"`
	PaymentMethod  string             `json:"payment_method,omitempty"`
	DeliveryMethod string             `json:"delivery_method,omitempty"`
	Items          []DisplayLineItem  `json:"items"`
}

// OrderHistory is the projected list plus the index where terminal orders begin.
// HasBoundary is false when no order is terminal.
type OrderHistory struct {
	Orders        []DisplayOrder
	FirstTerminal int
	HasBoundary   bool
}

// OrderHistoryReader loads the current identity's projected order history.
type OrderHistoryReader interface {
	History(ctx context.Context) (*OrderHistory, error)
}
