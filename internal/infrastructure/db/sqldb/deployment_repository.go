package sqldb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

type DeploymentRepository struct {
	db *gorm.DB
}

func NewDeploymentRepository(db *gorm.DB) *DeploymentRepository {
	return &DeploymentRepository{db: db}
}

// Create inserts the pair directly; the composite unique index decides
// whether it already exists.
func (r *DeploymentRepository) Create(ctx context.Context, clientID string, serviceID int64, at time.Time) (*domain.Deployment, error) {
	rec := deploymentRecord{
		ClientID:  clientID,
		ServiceID: serviceID,
		CreatedAt: at,
		UpdatedAt: at,
	}
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(&rec).Error; err != nil {
		switch classify(err) {
		case uniqueViolation:
			return nil, domain.ErrDeploymentExists
		case foreignKeyViolation:
			return nil, r.missingReference(ctx, clientID)
		}
		return nil, fmt.Errorf("insert deployment: %w", err)
	}

	if err := db.Preload("Client").Preload("Service").First(&rec, rec.ID).Error; err != nil {
		return nil, fmt.Errorf("load deployment: %w", err)
	}
	d := rec.toDomain()
	return &d, nil
}

// missingReference names the side of a rejected foreign key. SQLite does not
// report which constraint failed, so the client row is looked up.
func (r *DeploymentRepository) missingReference(ctx context.Context, clientID string) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&clientRecord{}).Where("id = ?", clientID).Count(&n).Error; err != nil {
		return fmt.Errorf("insert deployment: %w", err)
	}
	if n == 0 {
		return domain.ErrClientNotFound
	}
	return domain.ErrServiceNotFound
}

func (r *DeploymentRepository) List(ctx context.Context, clientID string) ([]domain.Deployment, error) {
	q := r.db.WithContext(ctx).Preload("Client").Preload("Service")
	if clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}

	var recs []deploymentRecord
	if err := q.Order("created_at DESC").Order("id DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	out := make([]domain.Deployment, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *DeploymentRepository) Delete(ctx context.Context, clientID string, serviceID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("client_id = ? AND service_id = ?", clientID, serviceID).
		Delete(&deploymentRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete deployment: %w", res.Error)
	}
	return res.RowsAffected, nil
}
