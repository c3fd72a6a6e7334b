package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dkazarov/fleet-reports/internal/model"
)

type EnterpriseRepository struct {
	db *gorm.DB
}

func NewEnterpriseRepository(db *gorm.DB) *EnterpriseRepository {
	return &EnterpriseRepository{db: db}
}

func (r *EnterpriseRepository) GetEnterprise(ctx context.Context, id int64) (*model.Enterprise, error) {
	var ent model.Enterprise
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, city, timezone
		FROM enterprises
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&ent).Error; err != nil {
		return nil, err
	}
	if ent.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &ent, nil
}
