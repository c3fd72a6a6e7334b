package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dkazarov/fleet-reports/internal/model"
)

// Storage collaborator interfaces consumed by the services. The gorm
// repositories satisfy them; tests substitute hand-rolled mocks.

type VehicleStore interface {
	GetVehicle(ctx context.Context, id int64) (*model.Vehicle, error)
	ListActiveVehicles(ctx context.Context, enterpriseID int64) ([]model.Vehicle, error)
	CreateVehicle(ctx context.Context, v *model.Vehicle) error
	UpdateVehicle(ctx context.Context, v *model.Vehicle) error
	DeleteVehicle(ctx context.Context, id int64) error
}

type DriverStore interface {
	GetDriver(ctx context.Context, id int64) (*model.Driver, error)
}

type EnterpriseStore interface {
	GetEnterprise(ctx context.Context, id int64) (*model.Enterprise, error)
}

type TripStore interface {
	TripsForVehicle(ctx context.Context, vehicleID int64, from, to time.Time) ([]model.Trip, error)
	TripsForActiveDriver(ctx context.Context, driverID int64, from, to time.Time) ([]model.Trip, error)
	HasOverlap(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error)
	CreateTrip(ctx context.Context, trip *model.Trip, points []model.TrackPoint) error
}

type TrackStore interface {
	TrackPointsInRange(ctx context.Context, vehicleID int64, from, to time.Time) ([]model.TrackPoint, error)
	InsertTrackPoint(ctx context.Context, p *model.TrackPoint) error
}

type ReportStore interface {
	CreateReport(ctx context.Context, report *model.Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*model.Report, error)
	ListReports(ctx context.Context) ([]model.Report, error)
}
