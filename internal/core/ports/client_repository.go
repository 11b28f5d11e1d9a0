package ports

import (
	"context"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// ClientRepository defines persistence for tenants.
type ClientRepository interface {
	// Create returns domain.ErrClientExists when the name is taken.
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	// ListWithCounts returns every client ordered by name, each annotated with
	// its current deployment and user counts.
	ListWithCounts(ctx context.Context) ([]domain.ClientSummary, error)
	// Delete removes the client together with its users and deployments.
	// It returns domain.ErrClientNotFound when nothing was deleted.
	Delete(ctx context.Context, id string) error
}
