package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/simpledough/storefront/internal/core/domain"
)

func TestMongoOrder_ToDomain(t *testing.T) {
	oid := primitive.NewObjectID()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	doc := mongoOrder{
		ID:             oid,
		CustomerID:     "cust-1",
		TotalAmount:    12000,
		PaymentMethod:  "gcash",
		DeliveryMethod: "delivery",
		Status:         "delivered",
		CreatedAt:      created,
		Items: []mongoOrderItem{
			{ID: "i1", ProductID: "ensaymada", Quantity: 2, Price: 3500, Flavors: []string{"ube"}, Toppings: map[string]string{"premium": "leche flan"}},
			{ID: "i2", ProductID: "retired", Quantity: 1, Price: 5000},
		},
		Products: []mongoProduct{{ID: "ensaymada", Name: "Ensaymada", ImageURL: "ens.png"}},
	}

	o := doc.toDomain()

	if o.ID != oid.Hex() || o.Status != domain.OrderDelivered || o.TotalAmount != 12000 {
		t.Fatalf("unexpected order: %+v", o)
	}
	if !o.CreatedAt.Equal(created) {
		t.Errorf("created at = %v", o.CreatedAt)
	}
	if len(o.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(o.Items))
	}
	if o.Items[0].Product == nil || o.Items[0].Product.Name != "Ensaymada" {
		t.Errorf("product not joined: %+v", o.Items[0].Product)
	}
	if o.Items[0].UnitPrice != 3500 || o.Items[0].Toppings[domain.ToppingPremium] != "leche flan" {
		t.Errorf("unexpected item: %+v", o.Items[0])
	}
	if o.Items[1].Product != nil {
		t.Error("item of a deleted product must have no product")
	}
}

func TestMongoOrder_ToDomain_NoItems(t *testing.T) {
	o := mongoOrder{ID: primitive.NewObjectID(), Status: "pending"}.toDomain()
	if o.Items == nil || len(o.Items) != 0 {
		t.Fatalf("expected empty, non-nil items, got %v", o.Items)
	}
}
