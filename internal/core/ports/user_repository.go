package ports

import (
	"context"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// UserRepository defines persistence for login accounts.
type UserRepository interface {
	// Create stores a new user and returns it with its ID. A duplicate email
	// yields domain.ErrUserExists; an unknown client yields domain.ErrClientNotFound.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns the user with ClientName populated when it has a tenant.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
