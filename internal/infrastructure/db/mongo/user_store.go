package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

// UserStore keeps identity provider accounts in the users collection.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(collectionUsers)}
}

type mongoMetadata struct {
	Name    string `bson:"name"`
	Phone   string `bson:"phone"`
	Address string `bson:"address"`
	Role    string `bson:"role"`
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Metadata     mongoMetadata      `bson:"metadata"`
	Confirmed    bool               `bson:"confirmed"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (mu mongoUser) toAccount() *ports.UserAccount {
	return &ports.UserAccount{
		ID:           mu.ID.Hex(),
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Metadata: ports.IdentityMetadata{
			Name:    mu.Metadata.Name,
			Phone:   mu.Metadata.Phone,
			Address: mu.Metadata.Address,
			Role:    mu.Metadata.Role,
		},
		Confirmed: mu.Confirmed,
		CreatedAt: unixToTime(mu.CreatedAt),
		UpdatedAt: unixToTime(mu.UpdatedAt),
	}
}

func toMongoMetadata(m ports.IdentityMetadata) mongoMetadata {
	return mongoMetadata{Name: m.Name, Phone: m.Phone, Address: m.Address, Role: m.Role}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserStore) Create(ctx context.Context, account *ports.UserAccount) (*ports.UserAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := mongoUser{
		Email:        normalizeEmail(account.Email),
		PasswordHash: account.PasswordHash,
		Metadata:     toMongoMetadata(account.Metadata),
		Confirmed:    account.Confirmed,
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrIdentityExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toAccount(), nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*ports.UserAccount, error) {
	return s.findOne(ctx, bson.M{"email": normalizeEmail(email)})
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*ports.UserAccount, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*ports.UserAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := s.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toAccount(), nil
}

// Update applies the non-nil fields and returns the stored result.
func (s *UserStore) Update(ctx context.Context, id string, u ports.UserAccountUpdate) (*ports.UserAccount, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if u.Email != nil {
		set["email"] = normalizeEmail(*u.Email)
	}
	if u.PasswordHash != nil {
		set["password_hash"] = *u.PasswordHash
	}
	if u.Metadata != nil {
		set["metadata"] = toMongoMetadata(*u.Metadata)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrIdentityExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toAccount(), nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

var _ ports.UserStore = (*UserStore)(nil)
