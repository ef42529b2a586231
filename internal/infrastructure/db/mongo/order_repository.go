package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

// OrderRepository reads orders with their items and the products those items
// reference. Orders are written by checkout elsewhere; this side is read-only.
type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(collectionOrders)}
}

type mongoOrderItem struct {
	ID        string            `bson:"id"`
	ProductID string            `bson:"product_id"`
	Quantity  int               `bson:"quantity"`
	Price     int64             `bson:"price"`
	Flavors   []string          `bson:"flavors"`
	Toppings  map[string]string `bson:"toppings"`
}

type mongoOrder struct {
	ID             primitive.ObjectID `bson:"_id"`
	CustomerID     string             `bson:"customer_id"`
	TotalAmount    int64              `bson:"total_amount"`
	PaymentMethod  string             `bson:"payment_method"`
	DeliveryMethod string             `bson:"delivery_method"`
	Status         string             `bson:"status"`
	CreatedAt      time.Time          `bson:"created_at"`
	Items          []mongoOrderItem   `bson:"items"`
	// Products is filled by the $lookup stage, decoded with the catalog shape.
	Products []mongoProduct `bson:"products"`
}

// ListByCustomer returns the customer's orders newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"customer_id": customerID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionProducts,
			"localField":   "items.product_id",
			"foreignField": "_id",
			"as":           "products",
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoOrder
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toDomain())
	}
	return orders, nil
}

func (d mongoOrder) toDomain() domain.Order {
	products := make(map[string]mongoProduct, len(d.Products))
	for _, p := range d.Products {
		products[p.ID] = p
	}

	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		item := domain.OrderItem{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: domain.Money(it.Price),
			Flavors:   it.Flavors,
			Toppings:  make(map[domain.ToppingTier]string, len(it.Toppings)),
		}
		for tier, v := range it.Toppings {
			item.Toppings[domain.ToppingTier(tier)] = v
		}
		// Deleted products leave the item without a product.
		if p, ok := products[it.ProductID]; ok {
			item.Product = &domain.OrderProduct{ID: p.ID, Name: p.Name, ImageURL: p.ImageURL}
		}
		items = append(items, item)
	}

	return domain.Order{
		ID:             d.ID.Hex(),
		CustomerID:     d.CustomerID,
		CreatedAt:      d.CreatedAt.UTC(),
		Status:         domain.OrderStatus(d.Status),
		TotalAmount:    domain.Money(d.TotalAmount),
		PaymentMethod:  d.PaymentMethod,
		DeliveryMethod: d.DeliveryMethod,
		Items:          items,
	}
}

var _ ports.OrderRepository = (*OrderRepository)(nil)
