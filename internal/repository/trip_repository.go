package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dkazarov/fleet-reports/internal/model"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

// TripsForVehicle returns trips fully contained in the half-open window
// [from, to), ordered by start time. Callers compute the window from the
// enterprise-local calendar dates of the requested report range.
func (r *TripRepository) TripsForVehicle(ctx context.Context, vehicleID int64, from, to time.Time) ([]model.Trip, error) {
	var trips []model.Trip
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, vehicle_id, start_time, end_time, duration_seconds
		FROM trips
		WHERE vehicle_id = ?
			AND start_time >= ?
			AND end_time < ?
		ORDER BY start_time ASC
	`, vehicleID, from, to).Scan(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

// TripsForActiveDriver returns trips of every vehicle whose current active
// driver is the given driver. Attribution is by the active driver at query
// time, not by who actually drove the trip.
func (r *TripRepository) TripsForActiveDriver(ctx context.Context, driverID int64, from, to time.Time) ([]model.Trip, error) {
	var trips []model.Trip
	if err := r.db.WithContext(ctx).Raw(`
		SELECT t.id, t.vehicle_id, t.start_time, t.end_time, t.duration_seconds
		FROM trips t
		JOIN vehicles v ON v.id = t.vehicle_id
		WHERE v.active_driver_id = ?
			AND t.start_time >= ?
			AND t.end_time < ?
		ORDER BY t.start_time ASC
	`, driverID, from, to).Scan(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

// HasOverlap reports whether any existing trip of the vehicle intersects
// the [start, end] interval. Trip non-overlap is enforced here, at write
// time; the aggregation code assumes it.
func (r *TripRepository) HasOverlap(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM trips
		WHERE vehicle_id = ?
			AND start_time < ?
			AND end_time > ?
	`, vehicleID, end, start).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TripRepository) CreateTrip(ctx context.Context, trip *model.Trip, points []model.TrackPoint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(`
			INSERT INTO trips (vehicle_id, start_time, end_time, duration_seconds)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`, trip.VehicleID, trip.StartTime, trip.EndTime, trip.DurationSeconds).Scan(&trip.ID).Error; err != nil {
			return err
		}
		for _, p := range points {
			if err := tx.Exec(`
				INSERT INTO track_points (vehicle_id, timestamp, latitude, longitude)
				VALUES (?, ?, ?, ?)
			`, trip.VehicleID, p.Timestamp, p.Latitude, p.Longitude).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
