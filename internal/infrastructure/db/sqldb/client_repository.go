package sqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	rec := clientRecord{
		ID:          client.ID,
		Name:        client.Name,
		Description: client.Description,
		CreatedAt:   client.CreatedAt,
		UpdatedAt:   client.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if classify(err) == uniqueViolation {
			return nil, domain.ErrClientExists
		}
		return nil, fmt.Errorf("insert client: %w", err)
	}
	out := rec.toDomain()
	return &out, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	var rec clientRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	out := rec.toDomain()
	return &out, nil
}

type clientCountRow struct {
	Client          clientRecord `gorm:"embedded"`
	DeploymentCount int64
	UserCount       int64
}

// ListWithCounts computes both counts with correlated subqueries so the
// figures always reflect the rows present at query time.
func (r *ClientRepository) ListWithCounts(ctx context.Context) ([]domain.ClientSummary, error) {
	var rows []clientCountRow
	err := r.db.WithContext(ctx).
		Table("clients").
		Select(`clients.*,
			(SELECT COUNT(*) FROM deployments d WHERE d.client_id = clients.id) AS deployment_count,
			(SELECT COUNT(*) FROM users u WHERE u.client_id = clients.id) AS user_count`).
		Order("clients.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	out := make([]domain.ClientSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ClientSummary{
			Client:          row.Client.toDomain(),
			DeploymentCount: row.DeploymentCount,
			UserCount:       row.UserCount,
		})
	}
	return out, nil
}

// Delete removes the client and everything scoped to it in one transaction.
// The foreign keys cascade as well; the explicit deletes keep the behaviour
// identical on connections that run without foreign key enforcement.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", id).Delete(&deploymentRecord{}).Error; err != nil {
			return fmt.Errorf("delete client deployments: %w", err)
		}
		if err := tx.Where("client_id = ?", id).Delete(&userRecord{}).Error; err != nil {
			return fmt.Errorf("delete client users: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&clientRecord{})
		if res.Error != nil {
			return fmt.Errorf("delete client: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrClientNotFound
		}
		return nil
	})
}
