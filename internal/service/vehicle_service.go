package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dkazarov/fleet-reports/internal/model"
)

const (
	VehicleEventCreated = "vehicle_created"
	VehicleEventUpdated = "vehicle_updated"
	VehicleEventDeleted = "vehicle_deleted"
)

type VehicleEvent struct {
	EventType  string        `json:"event_type"`
	Vehicle    model.Vehicle `json:"vehicle"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// EventPublisher fans vehicle lifecycle events out to the message broker.
// Publishing is best-effort: a broker failure is logged and the request
// still succeeds.
type EventPublisher interface {
	PublishVehicleEvent(ctx context.Context, event VehicleEvent) error
}

type VehicleService struct {
	vehicles  VehicleStore
	publisher EventPublisher
	log       zerolog.Logger
}

func NewVehicleService(vehicles VehicleStore, publisher EventPublisher, log zerolog.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, publisher: publisher, log: log}
}

func (s *VehicleService) CreateVehicle(ctx context.Context, v *model.Vehicle) error {
	if v.ActiveDriverID != nil && v.EnterpriseID == nil {
		return fmt.Errorf("%w: active driver requires an enterprise", ErrInvalidInput)
	}
	if v.PurchaseDate.IsZero() {
		v.PurchaseDate = time.Now().UTC()
	}
	if err := s.vehicles.CreateVehicle(ctx, v); err != nil {
		return err
	}
	s.emit(ctx, VehicleEventCreated, *v)
	return nil
}

func (s *VehicleService) UpdateVehicle(ctx context.Context, v *model.Vehicle) error {
	existing, err := s.vehicles.GetVehicle(ctx, v.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: vehicle %d", ErrNotFound, v.ID)
		}
		return err
	}

	// an enterprise change while a driver is active would silently
	// reattribute all of the vehicle's report history
	if existing.ActiveDriverID != nil && !sameID(existing.EnterpriseID, v.EnterpriseID) {
		return fmt.Errorf("%w: cannot change enterprise while a driver is active", ErrInvalidInput)
	}
	if v.ActiveDriverID != nil && v.EnterpriseID == nil {
		return fmt.Errorf("%w: active driver requires an enterprise", ErrInvalidInput)
	}

	if err := s.vehicles.UpdateVehicle(ctx, v); err != nil {
		return err
	}
	s.emit(ctx, VehicleEventUpdated, *v)
	return nil
}

func (s *VehicleService) DeleteVehicle(ctx context.Context, id int64) error {
	existing, err := s.vehicles.GetVehicle(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: vehicle %d", ErrNotFound, id)
		}
		return err
	}
	if err := s.vehicles.DeleteVehicle(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, VehicleEventDeleted, *existing)
	return nil
}

func (s *VehicleService) GetVehicle(ctx context.Context, id int64) (*model.Vehicle, error) {
	v, err := s.vehicles.GetVehicle(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vehicle %d", ErrNotFound, id)
		}
		return nil, err
	}
	return v, nil
}

func (s *VehicleService) emit(ctx context.Context, eventType string, v model.Vehicle) {
	if s.publisher == nil {
		return
	}
	event := VehicleEvent{EventType: eventType, Vehicle: v, OccurredAt: time.Now().UTC()}
	if err := s.publisher.PublishVehicleEvent(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event_type", eventType).Int64("vehicle_id", v.ID).Msg("vehicle event not published")
	}
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
