package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

type CustomerRepository struct {
	coll *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{coll: db.Collection(collectionCustomers)}
}

type mongoCustomer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	FullName  string             `bson:"full_name"`
	Phone     string             `bson:"phone"`
	Address   string             `bson:"address"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (c mongoCustomer) toDomain() *domain.CustomerRecord {
	return &domain.CustomerRecord{
		CustomerID: c.ID.Hex(),
		UserID:     c.UserID,
		FullName:   c.FullName,
		Phone:      c.Phone,
		Address:    c.Address,
	}
}

// Insert writes a new customer row. A second row for the same identity is a
// duplicate and reported as domain.ErrIdentityExists.
func (r *CustomerRepository) Insert(ctx context.Context, rec *domain.CustomerRecord) (*domain.CustomerRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := mongoCustomer{
		UserID:    rec.UserID,
		FullName:  rec.FullName,
		Phone:     rec.Phone,
		Address:   rec.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrIdentityExists
		}
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// FindByUserID returns domain.ErrNotFound when the identity has no customer row.
func (r *CustomerRepository) FindByUserID(ctx context.Context, userID string) (*domain.CustomerRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCustomer
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return mc.toDomain(), nil
}

// Update sets only the fields present in u.
func (r *CustomerRepository) Update(ctx context.Context, customerID string, u ports.CustomerUpdate) error {
	oid, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return fmt.Errorf("update customer: %w: bad customer id %q", domain.ErrInvalidInput, customerID)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if u.FullName != nil {
		set["full_name"] = *u.FullName
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ ports.CustomerRepository = (*CustomerRepository)(nil)
