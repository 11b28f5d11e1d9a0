package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
)

// DeploymentService manages which services are active for which clients.
type DeploymentService struct {
	deployments ports.DeploymentRepository
	clients     ports.ClientRepository
	services    ports.ServiceRepository
	log         zerolog.Logger
	now         func() time.Time
}

func NewDeploymentService(
	deployments ports.DeploymentRepository,
	clients ports.ClientRepository,
	services ports.ServiceRepository,
	log zerolog.Logger,
) *DeploymentService {
	return &DeploymentService{
		deployments: deployments,
		clients:     clients,
		services:    services,
		log:         log,
		now:         time.Now,
	}
}

// ListDeployments returns deployments newest first. Admins may filter by
// client; tenant members always see their own tenant only.
func (s *DeploymentService) ListDeployments(ctx context.Context, caller domain.Caller, filterClientID string) ([]domain.Deployment, error) {
	switch c := caller.(type) {
	case domain.Admin:
		return s.deployments.List(ctx, strings.TrimSpace(filterClientID))
	case domain.TenantMember:
		if c.TenantID == "" {
			return nil, domain.ErrNoTenant
		}
		return s.deployments.List(ctx, c.TenantID)
	default:
		return nil, domain.ErrUnauthenticated
	}
}

// Deploy activates serviceID for clientID. A repeated deploy of the same
// pair is rejected by the store's unique index and surfaces as
// domain.ErrDeploymentExists.
func (s *DeploymentService) Deploy(ctx context.Context, caller domain.Caller, clientID string, serviceID int64) (*domain.Deployment, error) {
	if err := validatePair(clientID, serviceID); err != nil {
		return nil, err
	}
	if err := AuthorizeTenantAccess(caller, clientID); err != nil {
		return nil, err
	}

	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	if _, err := s.services.FindByID(ctx, serviceID); err != nil {
		return nil, err
	}

	d, err := s.deployments.Create(ctx, clientID, serviceID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", caller.UserID()).
		Str("client_id", clientID).
		Int64("service_id", serviceID).
		Msg("service deployed")
	return d, nil
}

// Remove deletes the pair if present. Removing a pair that was never
// deployed is not an error.
func (s *DeploymentService) Remove(ctx context.Context, caller domain.Caller, clientID string, serviceID int64) error {
	if err := validatePair(clientID, serviceID); err != nil {
		return err
	}
	if err := AuthorizeTenantAccess(caller, clientID); err != nil {
		return err
	}

	n, err := s.deployments.Delete(ctx, clientID, serviceID)
	if err != nil {
		return err
	}

	s.log.Info().
		Str("user_id", caller.UserID()).
		Str("client_id", clientID).
		Int64("service_id", serviceID).
		Int64("removed", n).
		Msg("deployment removed")
	return nil
}

func validatePair(clientID string, serviceID int64) error {
	if strings.TrimSpace(clientID) == "" || serviceID <= 0 {
		return domain.InvalidInput("clientId and serviceId are required")
	}
	return nil
}
