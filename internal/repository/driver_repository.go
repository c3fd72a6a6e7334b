package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dkazarov/fleet-reports/internal/model"
)

type DriverRepository struct {
	db *gorm.DB
}

func NewDriverRepository(db *gorm.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

func (r *DriverRepository) GetDriver(ctx context.Context, id int64) (*model.Driver, error) {
	var d model.Driver
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, enterprise_id
		FROM drivers
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&d).Error; err != nil {
		return nil, err
	}
	if d.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (r *DriverRepository) GetDriverName(ctx context.Context, id int64) (string, error) {
	d, err := r.GetDriver(ctx, id)
	if err != nil {
		return "", err
	}
	return d.Name, nil
}
