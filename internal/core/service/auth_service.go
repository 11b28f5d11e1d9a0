package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
)

// AuthService implements login sessions and account provisioning.
type AuthService struct {
	users    ports.UserRepository
	clients  ports.ClientRepository
	sessions ports.SessionStore
	tokens   *TokenIssuer
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	clients ports.ClientRepository,
	sessions ports.SessionStore,
	tokens *TokenIssuer,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		clients:  clients,
		sessions: sessions,
		tokens:   tokens,
		log:      log,
		now:      time.Now,
	}
}

// Login checks the password and opens a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.InvalidInput("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	sess := domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokens.TTL()),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return "", nil, fmt.Errorf("login: save session: %w", err)
	}

	token, err := s.tokens.Issue(user, sess.ID, now)
	if err != nil {
		return "", nil, fmt.Errorf("login: sign token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
	return token, user, nil
}

// Logout revokes the session behind token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("user_id", claims.Subject).Msg("user logged out")
	return nil
}

// Me returns the caller's own account.
func (s *AuthService) Me(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.FindByID(ctx, caller.UserID())
}

// CreateUser provisions an account. Only admins may call it; client users
// must reference an existing tenant.
func (s *AuthService) CreateUser(ctx context.Context, caller domain.Caller, in ports.CreateUserInput) (*domain.User, error) {
	if _, err := AuthorizeAdmin(caller); err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.InvalidInput("email and password are required")
	}
	if !in.Role.Valid() {
		return nil, domain.InvalidInput("role must be ADMIN or CLIENT")
	}

	clientID := strings.TrimSpace(in.ClientID)
	switch in.Role {
	case domain.RoleClient:
		if clientID == "" {
			return nil, domain.InvalidInput("clientId is required for CLIENT users")
		}
		if _, err := s.clients.FindByID(ctx, clientID); err != nil {
			return nil, err
		}
	case domain.RoleAdmin:
		clientID = ""
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         in.Role,
		ClientID:     clientID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Str("client_id", clientID).Msg("user created")
	return created, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.InvalidInput("password must be at most 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
