package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkazarov/fleet-reports/internal/model"
)

type mockVehicleStore struct {
	vehicles map[int64]*model.Vehicle
	active   []model.Vehicle
	created  []model.Vehicle
	updated  []model.Vehicle
	deleted  []int64
}

func (m *mockVehicleStore) GetVehicle(_ context.Context, id int64) (*model.Vehicle, error) {
	if v, ok := m.vehicles[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVehicleStore) ListActiveVehicles(_ context.Context, _ int64) ([]model.Vehicle, error) {
	return m.active, nil
}

func (m *mockVehicleStore) CreateVehicle(_ context.Context, v *model.Vehicle) error {
	v.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *v)
	return nil
}

func (m *mockVehicleStore) UpdateVehicle(_ context.Context, v *model.Vehicle) error {
	m.updated = append(m.updated, *v)
	return nil
}

func (m *mockVehicleStore) DeleteVehicle(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockDriverStore struct {
	drivers map[int64]*model.Driver
}

func (m *mockDriverStore) GetDriver(_ context.Context, id int64) (*model.Driver, error) {
	if d, ok := m.drivers[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockEnterpriseStore struct {
	enterprises map[int64]*model.Enterprise
}

func (m *mockEnterpriseStore) GetEnterprise(_ context.Context, id int64) (*model.Enterprise, error) {
	if e, ok := m.enterprises[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockTripStore struct {
	byVehicle map[int64][]model.Trip
	byDriver  map[int64][]model.Trip
	overlap   bool
	created   []model.Trip
	points    []model.TrackPoint
}

func (m *mockTripStore) TripsForVehicle(_ context.Context, vehicleID int64, from, to time.Time) ([]model.Trip, error) {
	var result []model.Trip
	for _, trip := range m.byVehicle[vehicleID] {
		if !trip.StartTime.Before(from) && trip.EndTime.Before(to) {
			result = append(result, trip)
		}
	}
	return result, nil
}

func (m *mockTripStore) TripsForActiveDriver(_ context.Context, driverID int64, from, to time.Time) ([]model.Trip, error) {
	var result []model.Trip
	for _, trip := range m.byDriver[driverID] {
		if !trip.StartTime.Before(from) && trip.EndTime.Before(to) {
			result = append(result, trip)
		}
	}
	return result, nil
}

func (m *mockTripStore) HasOverlap(_ context.Context, _ int64, _, _ time.Time) (bool, error) {
	return m.overlap, nil
}

func (m *mockTripStore) CreateTrip(_ context.Context, trip *model.Trip, points []model.TrackPoint) error {
	trip.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *trip)
	m.points = append(m.points, points...)
	return nil
}

type mockTrackStore struct {
	byVehicle map[int64][]model.TrackPoint
	inserted  []model.TrackPoint
}

func (m *mockTrackStore) TrackPointsInRange(_ context.Context, vehicleID int64, from, to time.Time) ([]model.TrackPoint, error) {
	var result []model.TrackPoint
	for _, p := range m.byVehicle[vehicleID] {
		if !p.Timestamp.Before(from) && !p.Timestamp.After(to) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockTrackStore) InsertTrackPoint(_ context.Context, p *model.TrackPoint) error {
	m.inserted = append(m.inserted, *p)
	return nil
}

type mockReportStore struct {
	created []model.Report
	failAll bool
}

func (m *mockReportStore) CreateReport(_ context.Context, report *model.Report) error {
	if m.failAll {
		return errors.New("store down")
	}
	report.ID = uuid.New()
	report.CreatedAt = time.Now().UTC()
	m.created = append(m.created, *report)
	return nil
}

func (m *mockReportStore) GetReport(_ context.Context, id uuid.UUID) (*model.Report, error) {
	for _, report := range m.created {
		if report.ID == id {
			copied := report
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReportStore) ListReports(_ context.Context) ([]model.Report, error) {
	return m.created, nil
}

type mockPublisher struct {
	events []VehicleEvent
	err    error
}

func (m *mockPublisher) PublishVehicleEvent(_ context.Context, event VehicleEvent) error {
	m.events = append(m.events, event)
	return m.err
}

type mockGeocoder struct {
	address string
	err     error
}

func (m *mockGeocoder) Reverse(_ context.Context, _, _ float64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.address, nil
}
