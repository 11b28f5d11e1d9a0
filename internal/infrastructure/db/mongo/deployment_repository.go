package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

type DeploymentRepository struct {
	db          *mongo.Database
	deployments *mongo.Collection
	clients     *mongo.Collection
	services    *mongo.Collection
}

func NewDeploymentRepository(db *mongo.Database) *DeploymentRepository {
	return &DeploymentRepository{
		db:          db,
		deployments: db.Collection(collectionDeployments),
		clients:     db.Collection(collectionClients),
		services:    db.Collection(collectionServices),
	}
}

// Create inserts the pair. The compound unique index on (client_id,
// service_id) rejects a second insert of the same pair.
func (r *DeploymentRepository) Create(ctx context.Context, clientID string, serviceID int64, at time.Time) (*domain.Deployment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var client clientDoc
	if err := r.clients.FindOne(ctx, bson.M{"_id": clientID}).Decode(&client); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("check client: %w", err)
	}
	var service serviceDoc
	if err := r.services.FindOne(ctx, bson.M{"_id": serviceID}).Decode(&service); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("check service: %w", err)
	}

	id, err := nextSequence(ctx, r.db, collectionDeployments)
	if err != nil {
		return nil, err
	}
	doc := deploymentDoc{ID: id, ClientID: clientID, ServiceID: serviceID, CreatedAt: at, UpdatedAt: at}
	if _, err := r.deployments.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDeploymentExists
		}
		return nil, fmt.Errorf("insert deployment: %w", err)
	}

	return ptr(deploymentView{Deployment: doc, Client: &client, Service: &service}.toDomain()), nil
}

// deploymentListPipeline filters by client when clientID is set, orders
// newest first and joins the client and service documents.
func deploymentListPipeline(clientID string) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if clientID != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"client_id": clientID}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": collectionClients, "localField": "client_id", "foreignField": "_id", "as": "client",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": collectionServices, "localField": "service_id", "foreignField": "_id", "as": "service",
		}}},
		bson.D{{Key: "$unwind", Value: "$client"}},
		bson.D{{Key: "$unwind", Value: "$service"}},
	)
	return pipeline
}

func (r *DeploymentRepository) List(ctx context.Context, clientID string) ([]domain.Deployment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.deployments.Aggregate(ctx, deploymentListPipeline(clientID))
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	var views []deploymentView
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode deployments: %w", err)
	}

	out := make([]domain.Deployment, 0, len(views))
	for _, v := range views {
		out = append(out, v.toDomain())
	}
	return out, nil
}

func (r *DeploymentRepository) Delete(ctx context.Context, clientID string, serviceID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.deployments.DeleteMany(ctx, bson.M{"client_id": clientID, "service_id": serviceID})
	if err != nil {
		return 0, fmt.Errorf("delete deployment: %w", err)
	}
	return res.DeletedCount, nil
}

func ptr[T any](v T) *T { return &v }
