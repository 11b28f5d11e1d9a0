package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the core wraps exactly one of these,
// and the HTTP layer maps the class to a status code.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	ErrSessionNotFound    = fmt.Errorf("%w: session not found or expired", ErrUnauthenticated)

	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrUserExists   = fmt.Errorf("%w: user already exists", ErrConflict)

	ErrClientNotFound = fmt.Errorf("%w: client not found", ErrNotFound)
	ErrClientExists   = fmt.Errorf("%w: client name already exists", ErrConflict)

	ErrServiceNotFound = fmt.Errorf("%w: service not found", ErrNotFound)
	ErrServiceExists   = fmt.Errorf("%w: service name already exists", ErrConflict)

	ErrDeploymentExists = fmt.Errorf("%w: service already deployed", ErrConflict)

	ErrNoTenant = fmt.Errorf("%w: client id not found for caller", ErrInvalidInput)
)

// InvalidInput returns an ErrInvalidInput carrying a caller-facing reason.
func InvalidInput(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}
