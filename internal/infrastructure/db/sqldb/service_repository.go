package sqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	rec := serviceRecord{
		Name:        svc.Name,
		Vertical:    string(svc.Vertical),
		Description: svc.Description,
		Price:       svc.Price,
		CreatedAt:   svc.CreatedAt,
		UpdatedAt:   svc.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if classify(err) == uniqueViolation {
			return nil, domain.ErrServiceExists
		}
		return nil, fmt.Errorf("insert service: %w", err)
	}
	out := rec.toDomain()
	return &out, nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id int64) (*domain.Service, error) {
	var rec serviceRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	out := rec.toDomain()
	return &out, nil
}

func (r *ServiceRepository) List(ctx context.Context) ([]domain.Service, error) {
	var recs []serviceRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	out := make([]domain.Service, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}
