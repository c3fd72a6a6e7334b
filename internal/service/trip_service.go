package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dkazarov/fleet-reports/internal/model"
	"github.com/dkazarov/fleet-reports/internal/timebucket"
)

// Geocoder resolves a coordinate to a human-readable address. It is an
// external network collaborator; failures degrade to an empty address and
// never fail the request.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

type TripService struct {
	vehicles    VehicleStore
	enterprises EnterpriseStore
	trips       TripStore
	tracks      TrackStore
	geocoder    Geocoder
	log         zerolog.Logger
}

func NewTripService(
	vehicles VehicleStore,
	enterprises EnterpriseStore,
	trips TripStore,
	tracks TrackStore,
	geocoder Geocoder,
	log zerolog.Logger,
) *TripService {
	return &TripService{
		vehicles:    vehicles,
		enterprises: enterprises,
		trips:       trips,
		tracks:      tracks,
		geocoder:    geocoder,
		log:         log,
	}
}

type TripSummary struct {
	StartTimeLocal string `json:"start_time_local"`
	EndTimeLocal   string `json:"end_time_local"`
	Duration       string `json:"duration"`
	// Locations are [lat, lon] pairs; null when the trip has no points.
	StartLocation []float64 `json:"start_location"`
	StartAddress  string    `json:"start_address"`
	EndLocation   []float64 `json:"end_location"`
	EndAddress    string    `json:"end_address"`
}

// Summaries lists the vehicle's trips whose interval is contained in the
// given range. The range is interpreted in the enterprise's local zone;
// start/end are naive timestamps as entered by the user.
func (s *TripService) Summaries(ctx context.Context, vehicleID int64, start, end time.Time) ([]TripSummary, error) {
	vehicle, err := s.vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vehicle %d", ErrNotFound, vehicleID)
		}
		return nil, err
	}

	loc := time.UTC
	if vehicle.EnterpriseID != nil {
		enterprise, err := s.enterprises.GetEnterprise(ctx, *vehicle.EnterpriseID)
		if err != nil {
			return nil, err
		}
		if loc, err = timebucket.LoadZone(enterprise.Timezone); err != nil {
			return nil, err
		}
	}

	from := rebase(start, loc).UTC()
	to := rebase(end, loc).UTC()

	trips, err := s.trips.TripsForVehicle(ctx, vehicleID, from, to)
	if err != nil {
		return nil, err
	}

	summaries := make([]TripSummary, 0, len(trips))
	for _, trip := range trips {
		summary := TripSummary{
			StartTimeLocal: trip.StartTime.In(loc).Format(time.RFC3339),
			EndTimeLocal:   trip.EndTime.In(loc).Format(time.RFC3339),
			Duration:       trip.Duration().String(),
		}

		points, err := s.tracks.TrackPointsInRange(ctx, trip.VehicleID, trip.StartTime, trip.EndTime)
		if err != nil {
			return nil, err
		}
		if len(points) > 0 {
			first, last := points[0], points[len(points)-1]
			summary.StartLocation = []float64{first.Latitude, first.Longitude}
			summary.EndLocation = []float64{last.Latitude, last.Longitude}
			summary.StartAddress = s.reverse(ctx, first.Latitude, first.Longitude)
			summary.EndAddress = s.reverse(ctx, last.Latitude, last.Longitude)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

type TrackPointInput struct {
	Timestamp time.Time `json:"timestamp" binding:"required"`
	Latitude  float64   `json:"latitude" binding:"required"`
	Longitude float64   `json:"longitude" binding:"required"`
}

// UploadTrip creates a trip with its points. The trip interval must not
// intersect any existing trip of the vehicle and every point must fall
// inside the interval; duration is recomputed from start and end.
func (s *TripService) UploadTrip(ctx context.Context, vehicleID int64, start, end time.Time, points []TrackPointInput) (*model.Trip, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrInvalidInput)
	}
	if _, err := s.vehicles.GetVehicle(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vehicle %d", ErrNotFound, vehicleID)
		}
		return nil, err
	}

	for _, p := range points {
		if p.Timestamp.Before(start) || p.Timestamp.After(end) {
			return nil, fmt.Errorf("%w: track point %s is outside the trip interval", ErrInvalidInput, p.Timestamp.Format(time.RFC3339))
		}
	}

	overlap, err := s.trips.HasOverlap(ctx, vehicleID, start, end)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, ErrTripOverlap
	}

	trip := &model.Trip{
		VehicleID:       vehicleID,
		StartTime:       start.UTC(),
		EndTime:         end.UTC(),
		DurationSeconds: int64(end.Sub(start).Seconds()),
	}
	trackPoints := make([]model.TrackPoint, len(points))
	for i, p := range points {
		trackPoints[i] = model.TrackPoint{
			VehicleID: vehicleID,
			Timestamp: p.Timestamp.UTC(),
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		}
	}
	if err := s.trips.CreateTrip(ctx, trip, trackPoints); err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *TripService) reverse(ctx context.Context, lat, lon float64) string {
	if s.geocoder == nil {
		return ""
	}
	address, err := s.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		s.log.Warn().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("reverse geocode failed")
		return ""
	}
	return address
}

// rebase reinterprets a naive timestamp in the given zone, keeping its
// wall-clock components.
func rebase(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}
