package ports

import (
	"context"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// CreateServiceInput carries the catalog fields for a new service.
type CreateServiceInput struct {
	Name        string
	Vertical    string
	Description string
	Price       string
}

// RegistryService administers tenants and the service catalog.
type RegistryService interface {
	CreateClient(ctx context.Context, caller domain.Caller, name, description string) (*domain.Client, error)
	ListClients(ctx context.Context, caller domain.Caller) ([]domain.ClientSummary, error)
	DeleteClient(ctx context.Context, caller domain.Caller, id string) error
	CreateService(ctx context.Context, caller domain.Caller, input CreateServiceInput) (*domain.Service, error)
	ListServices(ctx context.Context, caller domain.Caller) ([]domain.Service, error)
}
