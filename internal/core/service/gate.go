package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
)

// Gate resolves bearer tokens into callers. It only reads the session and
// user stores.
type Gate struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	tokens   *TokenIssuer
}

func NewGate(users ports.UserRepository, sessions ports.SessionStore, tokens *TokenIssuer) *Gate {
	return &Gate{users: users, sessions: sessions, tokens: tokens}
}

// Authenticate returns the caller behind token. Role and tenant are taken
// from the stored user, not from the token claims.
func (g *Gate) Authenticate(ctx context.Context, token string) (domain.Caller, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing credential", domain.ErrUnauthenticated)
	}

	claims, err := g.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	sess, err := g.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("authenticate: load session: %w", err)
	}
	if sess.UserID != claims.Subject {
		return nil, domain.ErrSessionNotFound
	}

	user, err := g.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("authenticate: load user: %w", err)
	}

	return domain.CallerFor(user), nil
}

// AuthorizeAdmin narrows caller to an Admin or fails with ErrForbidden.
func AuthorizeAdmin(caller domain.Caller) (domain.Admin, error) {
	switch c := caller.(type) {
	case domain.Admin:
		return c, nil
	case nil:
		return domain.Admin{}, domain.ErrUnauthenticated
	default:
		return domain.Admin{}, domain.ErrForbidden
	}
}

// AuthorizeTenantAccess allows admins everywhere and tenant members only
// inside their own tenant.
func AuthorizeTenantAccess(caller domain.Caller, tenantID string) error {
	switch c := caller.(type) {
	case domain.Admin:
		return nil
	case domain.TenantMember:
		if c.TenantID != "" && c.TenantID == tenantID {
			return nil
		}
		return domain.ErrForbidden
	case nil:
		return domain.ErrUnauthenticated
	default:
		return domain.ErrForbidden
	}
}
