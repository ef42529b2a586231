package domain

import "time"

// OrderStatus is the lifecycle state of a placed order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transitions follow this status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// OrderProduct is the product joined onto an order item. Nil when the product was deleted.
type OrderProduct struct {
	ID       string
	Name     string
	ImageURL string
}

// OrderItem is one line of a placed order, in the order stored remotely.
type OrderItem struct {
	ID        string
	ProductID string
	Product   *OrderProduct
	Quantity  int
	UnitPrice Money
	Flavors   []string
	Toppings  map[ToppingTier]string
}

// Order is read-only from the client's point of view.
type Order struct {
	ID             string
	CustomerID     string
	CreatedAt      time.Time
	Status         OrderStatus
	TotalAmount    Money
	PaymentMethod  string
	DeliveryMethod string
	Items          []OrderItem
}
