package domain

import "time"

// Client is a tenant organisation that subscribes to services.
type Client struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ClientSummary is a client annotated with live relation counts.
type ClientSummary struct {
	Client
	DeploymentCount int64
	UserCount       int64
}
