package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

type ServiceRepository struct {
	db       *mongo.Database
	services *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{db: db, services: db.Collection(collectionServices)}
}

// Create takes the next id from the services counter. A rejected duplicate
// still consumes its id, matching an auto-increment column.
func (r *ServiceRepository) Create(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextSequence(ctx, r.db, collectionServices)
	if err != nil {
		return nil, err
	}

	doc := serviceDoc{
		ID:          id,
		Name:        svc.Name,
		Vertical:    string(svc.Vertical),
		Description: svc.Description,
		Price:       svc.Price,
		CreatedAt:   svc.CreatedAt,
		UpdatedAt:   svc.UpdatedAt,
	}
	if _, err := r.services.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrServiceExists
		}
		return nil, fmt.Errorf("insert service: %w", err)
	}
	out := doc.toDomain()
	return &out, nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id int64) (*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc serviceDoc
	if err := r.services.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	out := doc.toDomain()
	return &out, nil
}

func (r *ServiceRepository) List(ctx context.Context) ([]domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.services.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	var docs []serviceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}

	out := make([]domain.Service, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
