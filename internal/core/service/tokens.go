package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// sessionClaims is the JWT payload. The token is only a pointer to the
// server-side session named by SessionID; role and tenant are carried for
// clients that want to render without an extra round trip.
type sessionClaims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	ClientID  string `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// TTL is the lifetime of issued tokens and their sessions.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue signs a token for the user bound to sessionID.
func (t *TokenIssuer) Issue(user *domain.User, sessionID string, issuedAt time.Time) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID,
		Role:      string(user.Role),
		ClientID:  user.ClientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies the signature and expiry of token.
func (t *TokenIssuer) Parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: token missing session", domain.ErrUnauthenticated)
	}
	return claims, nil
}
