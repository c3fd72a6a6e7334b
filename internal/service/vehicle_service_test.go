package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkazarov/fleet-reports/internal/model"
)

func TestCreateVehiclePublishesEvent(t *testing.T) {
	store := &mockVehicleStore{vehicles: map[int64]*model.Vehicle{}}
	publisher := &mockPublisher{}
	service := NewVehicleService(store, publisher, zerolog.Nop())

	vehicle := &model.Vehicle{Plate: "A123BC", ModelName: "Gazelle Next"}
	require.NoError(t, service.CreateVehicle(context.Background(), vehicle))

	assert.NotZero(t, vehicle.ID)
	assert.False(t, vehicle.PurchaseDate.IsZero())
	require.Len(t, publisher.events, 1)
	assert.Equal(t, VehicleEventCreated, publisher.events[0].EventType)
	assert.Equal(t, vehicle.ID, publisher.events[0].Vehicle.ID)
}

func TestCreateVehicleRequiresEnterpriseForDriver(t *testing.T) {
	store := &mockVehicleStore{vehicles: map[int64]*model.Vehicle{}}
	service := NewVehicleService(store, nil, zerolog.Nop())

	driverID := int64(5)
	err := service.CreateVehicle(context.Background(), &model.Vehicle{Plate: "A123BC", ActiveDriverID: &driverID})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.created)
}

func TestCreateVehiclePublishFailureNonFatal(t *testing.T) {
	store := &mockVehicleStore{vehicles: map[int64]*model.Vehicle{}}
	publisher := &mockPublisher{err: errors.New("broker down")}
	service := NewVehicleService(store, publisher, zerolog.Nop())

	require.NoError(t, service.CreateVehicle(context.Background(), &model.Vehicle{Plate: "A123BC"}))
	assert.Len(t, store.created, 1)
}

func TestUpdateVehicleEnterpriseChangeBlockedWhileDriverActive(t *testing.T) {
	enterpriseID := int64(10)
	otherID := int64(11)
	driverID := int64(5)
	store := &mockVehicleStore{vehicles: map[int64]*model.Vehicle{
		1: {ID: 1, Plate: "A123BC", EnterpriseID: &enterpriseID, ActiveDriverID: &driverID},
	}}
	service := NewVehicleService(store, nil, zerolog.Nop())

	err := service.UpdateVehicle(context.Background(), &model.Vehicle{
		ID: 1, Plate: "A123BC", EnterpriseID: &otherID, ActiveDriverID: &driverID,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.updated)
}

func TestUpdateVehicle(t *testing.T) {
	enterpriseID := int64(10)
	store := &mockVehicleStore{vehicles: map[int64]*model.Vehicle{
		1: {ID: 1, Plate: "A123BC", EnterpriseID: &enterpriseID, PurchaseDate: time.Now().UTC()},
	}}
	publisher := &mockPublisher{}
	service := NewVehicleService(store, publisher, zerolog.Nop())

	err := service.UpdateVehicle(context.Background(), &model.Vehicle{
		ID: 1, Plate: "A123BC", Color: "white", EnterpriseID: &enterpriseID,
	})
	require.NoError(t, err)
	require.Len(t, store.updated, 1)
	assert.Equal(t, "white", store.updated[0].Color)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, VehicleEventUpdated, publisher.events[0].EventType)
}

func TestUpdateVehicleNotFound(t *testing.T) {
	store := &mockVehicleStore{vehicles: map[int64]*model.Vehicle{}}
	service := NewVehicleService(store, nil, zerolog.Nop())

	err := service.UpdateVehicle(context.Background(), &model.Vehicle{ID: 404})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteVehiclePublishesLastKnownState(t *testing.T) {
	store := &mockVehicleStore{vehicles: map[int64]*model.Vehicle{
		1: {ID: 1, Plate: "A123BC", Color: "blue"},
	}}
	publisher := &mockPublisher{}
	service := NewVehicleService(store, publisher, zerolog.Nop())

	require.NoError(t, service.DeleteVehicle(context.Background(), 1))
	assert.Equal(t, []int64{1}, store.deleted)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, VehicleEventDeleted, publisher.events[0].EventType)
	assert.Equal(t, "blue", publisher.events[0].Vehicle.Color)
}

func TestDeleteVehicleNotFound(t *testing.T) {
	store := &mockVehicleStore{vehicles: map[int64]*model.Vehicle{}}
	service := NewVehicleService(store, nil, zerolog.Nop())

	err := service.DeleteVehicle(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.deleted)
}
