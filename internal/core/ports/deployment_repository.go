package ports

import (
	"context"
	"time"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// DeploymentRepository persists the client/service relation.
type DeploymentRepository interface {
	// Create inserts the pair and returns the row joined with its client and
	// service. Uniqueness is checked by the store at insert time: an existing
	// pair yields domain.ErrDeploymentExists, a dangling reference yields
	// domain.ErrClientNotFound or domain.ErrServiceNotFound.
	Create(ctx context.Context, clientID string, serviceID int64, at time.Time) (*domain.Deployment, error)
	// List returns joined deployments, newest first. An empty clientID means all tenants.
	List(ctx context.Context, clientID string) ([]domain.Deployment, error)
	// Delete removes rows matching the pair and reports how many were removed.
	Delete(ctx context.Context, clientID string, serviceID int64) (int64, error)
}
