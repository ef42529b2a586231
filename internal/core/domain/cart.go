package domain

// Money is an amount in minor currency units (centavos).
type Money int64

// Times returns m multiplied by a quantity.
func (m Money) Times(qty int) Money {
	return m * Money(qty)
}

// ToppingTier groups topping choices, e.g. "classic" or "premium".
type ToppingTier string

const (
	ToppingClassic ToppingTier = "classic"
	ToppingPremium ToppingTier = "premium"
)

// Customizations are the per-line choices made when adding a product.
type Customizations struct {
	Flavors  []string               `json:"flavors"`
	Toppings map[ToppingTier]string `json:"toppings"`
}

// ProductSnapshot holds the product fields captured when the line was added.
type ProductSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    Money  `json:"price"`
	ImageURL string `json:"image_url,omitempty"`
	Category string `json:"category,omitempty"`
}

// CartItem is one line of the cart.
type CartItem struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Product        ProductSnapshot `json:"product"`
	Quantity       int             `json:"quantity"`
	Customizations Customizations  `json:"customizations"`
	LineTotal      Money           `json:"line_total"`
}

// CheckoutLine is the mapping of a cart line used when inserting an order.
type CheckoutLine struct {
	ProductID      string         `json:"product_id"`
	Quantity       int            `json:"quantity"`
	TotalPrice     Money          `json:"total_price"`
	Customizations Customizations `json:"customizations"`
}
