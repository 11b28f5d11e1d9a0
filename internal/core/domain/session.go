package domain

import "time"

// Session is the server-side record a bearer token points at. Deleting it
// revokes the token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
