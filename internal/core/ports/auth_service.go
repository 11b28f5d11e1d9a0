package ports

import (
	"context"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// CreateUserInput carries the fields for provisioning a login account.
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     domain.Role
	ClientID string
}

// AuthService handles login sessions and account provisioning.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, caller domain.Caller) (*domain.User, error)
	CreateUser(ctx context.Context, caller domain.Caller, input CreateUserInput) (*domain.User, error)
}

// Authenticator resolves a bearer credential into a Caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Caller, error)
}
