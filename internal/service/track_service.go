package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dkazarov/fleet-reports/internal/model"
	"github.com/dkazarov/fleet-reports/internal/timebucket"
)

// TrackService serves raw track point retrieval for the map views.
// Timestamps are rendered in the owning enterprise's local zone.
type TrackService struct {
	vehicles    VehicleStore
	enterprises EnterpriseStore
	tracks      TrackStore
}

func NewTrackService(vehicles VehicleStore, enterprises EnterpriseStore, tracks TrackStore) *TrackService {
	return &TrackService{vehicles: vehicles, enterprises: enterprises, tracks: tracks}
}

type TrackPointJSON struct {
	// Location is [lon, lat], matching the GeoJSON coordinate order.
	Location  [2]float64 `json:"location"`
	Timestamp string     `json:"timestamp"`
}

type GeoJSONGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type GeoJSONFeature struct {
	Type       string            `json:"type"`
	Geometry   GeoJSONGeometry   `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// GetTrackPoints returns the vehicle's points in [start, end] either as a
// plain list or as a GeoJSON FeatureCollection when format is "geojson".
func (s *TrackService) GetTrackPoints(ctx context.Context, vehicleID int64, start, end time.Time, format string) (any, error) {
	vehicle, err := s.vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vehicle %d", ErrNotFound, vehicleID)
		}
		return nil, err
	}

	loc, err := s.location(ctx, vehicle)
	if err != nil {
		return nil, err
	}

	points, err := s.tracks.TrackPointsInRange(ctx, vehicleID, start, end)
	if err != nil {
		return nil, err
	}

	if format == "geojson" {
		features := make([]GeoJSONFeature, 0, len(points))
		for _, p := range points {
			features = append(features, GeoJSONFeature{
				Type: "Feature",
				Geometry: GeoJSONGeometry{
					Type:        "Point",
					Coordinates: [2]float64{p.Longitude, p.Latitude},
				},
				Properties: map[string]string{
					"timestamp": p.Timestamp.In(loc).Format(time.RFC3339),
				},
			})
		}
		return GeoJSONFeatureCollection{Type: "FeatureCollection", Features: features}, nil
	}

	result := make([]TrackPointJSON, 0, len(points))
	for _, p := range points {
		result = append(result, TrackPointJSON{
			Location:  [2]float64{p.Longitude, p.Latitude},
			Timestamp: p.Timestamp.In(loc).Format(time.RFC3339),
		})
	}
	return result, nil
}

func (s *TrackService) location(ctx context.Context, vehicle *model.Vehicle) (*time.Location, error) {
	if vehicle.EnterpriseID == nil {
		return time.UTC, nil
	}
	enterprise, err := s.enterprises.GetEnterprise(ctx, *vehicle.EnterpriseID)
	if err != nil {
		return nil, err
	}
	return timebucket.LoadZone(enterprise.Timezone)
}
