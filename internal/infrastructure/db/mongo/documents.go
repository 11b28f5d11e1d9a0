package mongo

import (
	"time"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

type clientDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d clientDoc) toDomain() domain.Client {
	return domain.Client{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	Name         string    `bson:"name"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	ClientID     string    `bson:"client_id,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		ClientID:     d.ClientID,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

type serviceDoc struct {
	ID          int64     `bson:"_id"`
	Name        string    `bson:"name"`
	Vertical    string    `bson:"vertical"`
	Description string    `bson:"description"`
	Price       string    `bson:"price"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d serviceDoc) toDomain() domain.Service {
	return domain.Service{
		ID:          d.ID,
		Name:        d.Name,
		Vertical:    domain.Vertical(d.Vertical),
		Description: d.Description,
		Price:       d.Price,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type deploymentDoc struct {
	ID        int64     `bson:"_id"`
	ClientID  string    `bson:"client_id"`
	ServiceID int64     `bson:"service_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// deploymentView is a deployment after the client and service lookups.
type deploymentView struct {
	Deployment deploymentDoc `bson:",inline"`
	Client     *clientDoc    `bson:"client,omitempty"`
	Service    *serviceDoc   `bson:"service,omitempty"`
}

func (v deploymentView) toDomain() domain.Deployment {
	d := domain.Deployment{
		ID:        v.Deployment.ID,
		ClientID:  v.Deployment.ClientID,
		ServiceID: v.Deployment.ServiceID,
		CreatedAt: v.Deployment.CreatedAt.UTC(),
		UpdatedAt: v.Deployment.UpdatedAt.UTC(),
	}
	if v.Client != nil {
		c := v.Client.toDomain()
		d.Client = &c
	}
	if v.Service != nil {
		s := v.Service.toDomain()
		d.Service = &s
	}
	return d
}
