package ports

import (
	"context"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// ServiceRepository defines persistence for the service catalog.
type ServiceRepository interface {
	// Create assigns the next identifier. Duplicate names yield domain.ErrServiceExists.
	Create(ctx context.Context, service *domain.Service) (*domain.Service, error)
	FindByID(ctx context.Context, id int64) (*domain.Service, error)
	// List returns the catalog ordered by identifier ascending.
	List(ctx context.Context) ([]domain.Service, error)
}
