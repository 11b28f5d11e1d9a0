package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
)

// RegistryService administers tenants and the service catalog.
type RegistryService struct {
	clients  ports.ClientRepository
	services ports.ServiceRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewRegistryService(clients ports.ClientRepository, services ports.ServiceRepository, log zerolog.Logger) *RegistryService {
	return &RegistryService{clients: clients, services: services, log: log, now: time.Now}
}

// CreateClient registers a new tenant. Names are unique.
func (s *RegistryService) CreateClient(ctx context.Context, caller domain.Caller, name, description string) (*domain.Client, error) {
	if _, err := AuthorizeAdmin(caller); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidInput("name is required")
	}

	now := s.now().UTC()
	client, err := s.clients.Create(ctx, &domain.Client{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("client_id", client.ID).Str("name", client.Name).Msg("client created")
	return client, nil
}

// ListClients returns every tenant with live deployment and user counts.
func (s *RegistryService) ListClients(ctx context.Context, caller domain.Caller) ([]domain.ClientSummary, error) {
	if _, err := AuthorizeAdmin(caller); err != nil {
		return nil, err
	}
	return s.clients.ListWithCounts(ctx)
}

// DeleteClient removes a tenant; its users and deployments go with it.
func (s *RegistryService) DeleteClient(ctx context.Context, caller domain.Caller, id string) error {
	if _, err := AuthorizeAdmin(caller); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return domain.InvalidInput("client id is required")
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("client_id", id).Msg("client deleted")
	return nil
}

// CreateService appends an offering to the catalog.
func (s *RegistryService) CreateService(ctx context.Context, caller domain.Caller, in ports.CreateServiceInput) (*domain.Service, error) {
	if _, err := AuthorizeAdmin(caller); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	vertical := domain.Vertical(strings.TrimSpace(in.Vertical))
	description := strings.TrimSpace(in.Description)
	price := strings.TrimSpace(in.Price)
	if name == "" || vertical == "" || description == "" || price == "" {
		return nil, domain.InvalidInput("all fields are required")
	}
	if !vertical.Valid() {
		return nil, domain.InvalidInput(fmt.Sprintf("vertical must be one of: %s", verticalList()))
	}

	now := s.now().UTC()
	svc, err := s.services.Create(ctx, &domain.Service{
		Name:        name,
		Vertical:    vertical,
		Description: description,
		Price:       price,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("service_id", svc.ID).Str("name", svc.Name).Str("vertical", string(svc.Vertical)).Msg("service created")
	return svc, nil
}

// ListServices returns the catalog to any authenticated caller.
func (s *RegistryService) ListServices(ctx context.Context, caller domain.Caller) ([]domain.Service, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.services.List(ctx)
}

func verticalList() string {
	names := make([]string, len(domain.Verticals))
	for i, v := range domain.Verticals {
		names[i] = string(v)
	}
	return strings.Join(names, " ")
}
