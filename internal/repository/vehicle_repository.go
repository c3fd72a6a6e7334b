package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dkazarov/fleet-reports/internal/model"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) GetVehicle(ctx context.Context, id int64) (*model.Vehicle, error) {
	var v model.Vehicle
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, plate, model_name, color, enterprise_id, active_driver_id, purchase_date
		FROM vehicles
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&v).Error; err != nil {
		return nil, err
	}
	if v.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

// ListActiveVehicles returns the enterprise's vehicles that currently have
// an active driver. Vehicles without one are invisible to enterprise-wide
// reports by definition.
func (r *VehicleRepository) ListActiveVehicles(ctx context.Context, enterpriseID int64) ([]model.Vehicle, error) {
	var rows []model.Vehicle
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, plate, model_name, color, enterprise_id, active_driver_id, purchase_date
		FROM vehicles
		WHERE enterprise_id = ?
			AND active_driver_id IS NOT NULL
		ORDER BY id ASC
	`, enterpriseID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *VehicleRepository) CreateVehicle(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Raw(`
		INSERT INTO vehicles (plate, model_name, color, enterprise_id, active_driver_id, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, v.Plate, v.ModelName, v.Color, v.EnterpriseID, v.ActiveDriverID, v.PurchaseDate).Scan(&v.ID).Error
}

func (r *VehicleRepository) UpdateVehicle(ctx context.Context, v *model.Vehicle) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE vehicles
		SET plate = ?, model_name = ?, color = ?, enterprise_id = ?, active_driver_id = ?, purchase_date = ?
		WHERE id = ?
	`, v.Plate, v.ModelName, v.Color, v.EnterpriseID, v.ActiveDriverID, v.PurchaseDate, v.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *VehicleRepository) DeleteVehicle(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM vehicles WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
