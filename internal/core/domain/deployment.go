package domain

import "time"

// Deployment records that a service is active for a client. The pair
// (ClientID, ServiceID) is unique.
type Deployment struct {
	ID        int64
	ClientID  string
	ServiceID int64
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined records, populated on reads.
	Client  *Client
	Service *Service
}
