package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

type UserRepository struct {
	users   *mongo.Collection
	clients *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:   db.Collection(collectionUsers),
		clients: db.Collection(collectionClients),
	}
}

// Create inserts the user. Mongo has no foreign keys, so the tenant is
// checked before the insert.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if user.ClientID != "" {
		if err := r.clients.FindOne(ctx, bson.M{"_id": user.ClientID}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrClientNotFound
			}
			return nil, fmt.Errorf("check client: %w", err)
		}
	}

	doc := userDoc{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		ClientID:     user.ClientID,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	user := doc.toDomain()
	if doc.ClientID != "" {
		var c clientDoc
		err := r.clients.FindOne(ctx, bson.M{"_id": doc.ClientID}).Decode(&c)
		switch {
		case err == nil:
			user.ClientName = c.Name
		case !errors.Is(err, mongo.ErrNoDocuments):
			return nil, fmt.Errorf("find user client: %w", err)
		}
	}
	return user, nil
}
