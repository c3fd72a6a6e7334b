package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dkazarov/fleet-reports/internal/model"
)

type TrackRepository struct {
	db *gorm.DB
}

func NewTrackRepository(db *gorm.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// TrackPointsInRange returns the vehicle's points with timestamps in
// [from, to] inclusive, ascending. Trip distance computation fetches the
// points of one trip through exactly this window.
func (r *TrackRepository) TrackPointsInRange(ctx context.Context, vehicleID int64, from, to time.Time) ([]model.TrackPoint, error) {
	var points []model.TrackPoint
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, vehicle_id, timestamp, latitude, longitude
		FROM track_points
		WHERE vehicle_id = ?
			AND timestamp >= ?
			AND timestamp <= ?
		ORDER BY timestamp ASC
	`, vehicleID, from, to).Scan(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

func (r *TrackRepository) InsertTrackPoint(ctx context.Context, p *model.TrackPoint) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO track_points (vehicle_id, timestamp, latitude, longitude)
		VALUES (?, ?, ?, ?)
	`, p.VehicleID, p.Timestamp, p.Latitude, p.Longitude).Error
}
