package sqldb

import (
	"time"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

type clientRecord struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (clientRecord) TableName() string { return "clients" }

func (r clientRecord) toDomain() domain.Client {
	return domain.Client{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type userRecord struct {
	ID           string        `gorm:"primaryKey;size:36"`
	Email        string        `gorm:"uniqueIndex;not null"`
	Name         string
	PasswordHash string        `gorm:"not null"`
	Role         string        `gorm:"size:16;not null"`
	ClientID     *string       `gorm:"size:36;index"`
	Client       *clientRecord `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

func (r userRecord) toDomain() *domain.User {
	u := &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
	if r.ClientID != nil {
		u.ClientID = *r.ClientID
	}
	if r.Client != nil {
		u.ClientName = r.Client.Name
	}
	return u
}

type serviceRecord struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"uniqueIndex;not null"`
	Vertical    string `gorm:"size:16;not null"`
	Description string `gorm:"not null"`
	Price       string `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (serviceRecord) TableName() string { return "services" }

func (r serviceRecord) toDomain() domain.Service {
	return domain.Service{
		ID:          r.ID,
		Name:        r.Name,
		Vertical:    domain.Vertical(r.Vertical),
		Description: r.Description,
		Price:       r.Price,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// deploymentRecord carries the composite unique index that makes a second
// deploy of the same pair fail inside the database.
type deploymentRecord struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	ClientID  string         `gorm:"size:36;not null;uniqueIndex:idx_deployments_client_service,priority:1"`
	ServiceID int64          `gorm:"not null;uniqueIndex:idx_deployments_client_service,priority:2"`
	Client    *clientRecord  `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Service   *serviceRecord `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time
}

func (deploymentRecord) TableName() string { return "deployments" }

func (r deploymentRecord) toDomain() domain.Deployment {
	d := domain.Deployment{
		ID:        r.ID,
		ClientID:  r.ClientID,
		ServiceID: r.ServiceID,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.Client != nil {
		c := r.Client.toDomain()
		d.Client = &c
	}
	if r.Service != nil {
		s := r.Service.toDomain()
		d.Service = &s
	}
	return d
}
