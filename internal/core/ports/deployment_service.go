package ports

import (
	"context"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// DeploymentService enforces the client/service relation rules.
type DeploymentService interface {
	// ListDeployments honours filterClientID only for admins.
	ListDeployments(ctx context.Context, caller domain.Caller, filterClientID string) ([]domain.Deployment, error)
	Deploy(ctx context.Context, caller domain.Caller, clientID string, serviceID int64) (*domain.Deployment, error)
	// Remove succeeds whether or not a matching deployment existed.
	Remove(ctx context.Context, caller domain.Caller, clientID string, serviceID int64) error
}
