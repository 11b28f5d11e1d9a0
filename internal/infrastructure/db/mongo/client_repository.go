package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

type ClientRepository struct {
	clients     *mongo.Collection
	users       *mongo.Collection
	deployments *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{
		clients:     db.Collection(collectionClients),
		users:       db.Collection(collectionUsers),
		deployments: db.Collection(collectionDeployments),
	}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := clientDoc{
		ID:          client.ID,
		Name:        client.Name,
		Description: client.Description,
		CreatedAt:   client.CreatedAt,
		UpdatedAt:   client.UpdatedAt,
	}
	if _, err := r.clients.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrClientExists
		}
		return nil, fmt.Errorf("insert client: %w", err)
	}
	out := doc.toDomain()
	return &out, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clientDoc
	if err := r.clients.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	out := doc.toDomain()
	return &out, nil
}

type clientCountDoc struct {
	Client          clientDoc `bson:",inline"`
	DeploymentCount int64     `bson:"deployment_count"`
	UserCount       int64     `bson:"user_count"`
}

// clientCountsPipeline sorts clients by name and adds the size of their
// deployment and user lookups.
func clientCountsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from": collectionDeployments, "localField": "_id", "foreignField": "client_id", "as": "deployments",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": collectionUsers, "localField": "_id", "foreignField": "client_id", "as": "users",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"deployment_count": bson.M{"$size": "$deployments"},
			"user_count":       bson.M{"$size": "$users"},
		}}},
		{{Key: "$project", Value: bson.M{"deployments": 0, "users": 0}}},
	}
}

func (r *ClientRepository) ListWithCounts(ctx context.Context) ([]domain.ClientSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.clients.Aggregate(ctx, clientCountsPipeline())
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	var docs []clientCountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}

	out := make([]domain.ClientSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.ClientSummary{
			Client:          d.Client.toDomain(),
			DeploymentCount: d.DeploymentCount,
			UserCount:       d.UserCount,
		})
	}
	return out, nil
}

// Delete removes the client's deployments and users, then the client. The
// dependents go first so a failure part way never leaves orphans.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.deployments.DeleteMany(ctx, bson.M{"client_id": id}); err != nil {
		return fmt.Errorf("delete client deployments: %w", err)
	}
	if _, err := r.users.DeleteMany(ctx, bson.M{"client_id": id}); err != nil {
		return fmt.Errorf("delete client users: %w", err)
	}
	res, err := r.clients.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}
