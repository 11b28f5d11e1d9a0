package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// --- Requests ---

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=ADMIN CLIENT"`
	ClientID string `json:"clientId"`
}

type createClientRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type createServiceRequest struct {
	Name        string `json:"name" validate:"required"`
	Vertical    string `json:"vertical" validate:"required,oneof=Identify Protect Detect Respond Recover Govern"`
	Description string `json:"description" validate:"required"`
	Price       string `json:"price" validate:"required"`
}

type deployRequest struct {
	ClientID  string    `json:"clientId"`
	ServiceID serviceID `json:"serviceId" swaggertype:"integer"`
}

// serviceID accepts a JSON number or a numeric string. Anything else
// decodes to zero, which the deployment rules reject as missing.
type serviceID int64

func (s *serviceID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = serviceID(parseServiceID(str))
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("serviceId must be an integer")
	}
	*s = serviceID(n)
	return nil
}

func parseServiceID(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// --- Responses ---

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	ClientID   string    `json:"clientId,omitempty"`
	ClientName string    `json:"clientName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type clientResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type clientCounts struct {
	Deployments int64 `json:"deployments"`
	Users       int64 `json:"users"`
}

type clientSummaryResponse struct {
	clientResponse
	Count clientCounts `json:"_count"`
}

type serviceResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Vertical    string    `json:"vertical"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type deploymentResponse struct {
	ID        int64            `json:"id"`
	ClientID  string           `json:"clientId"`
	ServiceID int64            `json:"serviceId"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Client    *clientResponse  `json:"client"`
	Service   *serviceResponse `json:"service"`
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		ClientID:   u.ClientID,
		ClientName: u.ClientName,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toClientResponse(c domain.Client) clientResponse {
	return clientResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toClientSummaryResponse(s domain.ClientSummary) clientSummaryResponse {
	return clientSummaryResponse{
		clientResponse: toClientResponse(s.Client),
		Count:          clientCounts{Deployments: s.DeploymentCount, Users: s.UserCount},
	}
}

func toServiceResponse(s domain.Service) serviceResponse {
	return serviceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Vertical:    string(s.Vertical),
		Description: s.Description,
		Price:       s.Price,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toDeploymentResponse(d domain.Deployment) deploymentResponse {
	resp := deploymentResponse{
		ID:        d.ID,
		ClientID:  d.ClientID,
		ServiceID: d.ServiceID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Client != nil {
		c := toClientResponse(*d.Client)
		resp.Client = &c
	}
	if d.Service != nil {
		s := toServiceResponse(*d.Service)
		resp.Service = &s
	}
	return resp
}
