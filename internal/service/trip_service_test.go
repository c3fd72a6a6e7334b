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

type tripFixture struct {
	vehicles    *mockVehicleStore
	enterprises *mockEnterpriseStore
	trips       *mockTripStore
	tracks      *mockTrackStore
	geocoder    *mockGeocoder
	service     *TripService
}

func newTripFixture() *tripFixture {
	f := &tripFixture{
		vehicles:    &mockVehicleStore{vehicles: map[int64]*model.Vehicle{}},
		enterprises: &mockEnterpriseStore{enterprises: map[int64]*model.Enterprise{}},
		trips:       &mockTripStore{byVehicle: map[int64][]model.Trip{}},
		tracks:      &mockTrackStore{byVehicle: map[int64][]model.TrackPoint{}},
		geocoder:    &mockGeocoder{address: "Tverskaya St, 1, Moscow"},
	}
	f.service = NewTripService(f.vehicles, f.enterprises, f.trips, f.tracks, f.geocoder, zerolog.Nop())
	return f
}

func TestUploadTripRecomputesDuration(t *testing.T) {
	f := newTripFixture()
	f.vehicles.vehicles[1] = &model.Vehicle{ID: 1, Plate: "A123BC"}

	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	trip, err := f.service.UploadTrip(context.Background(), 1, start, end, []TrackPointInput{
		{Timestamp: start, Latitude: 55.75, Longitude: 37.61},
		{Timestamp: end, Latitude: 55.76, Longitude: 37.61},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5400), trip.DurationSeconds)
	require.Len(t, f.trips.created, 1)
	assert.Len(t, f.trips.points, 2)
}

func TestUploadTripRejectsInvertedInterval(t *testing.T) {
	f := newTripFixture()
	f.vehicles.vehicles[1] = &model.Vehicle{ID: 1, Plate: "A123BC"}

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	_, err := f.service.UploadTrip(context.Background(), 1, start, start, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUploadTripUnknownVehicle(t *testing.T) {
	f := newTripFixture()

	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	_, err := f.service.UploadTrip(context.Background(), 404, start, start.Add(time.Hour), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadTripRejectsPointOutsideInterval(t *testing.T) {
	f := newTripFixture()
	f.vehicles.vehicles[1] = &model.Vehicle{ID: 1, Plate: "A123BC"}

	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	_, err := f.service.UploadTrip(context.Background(), 1, start, end, []TrackPointInput{
		{Timestamp: end.Add(time.Minute), Latitude: 55.75, Longitude: 37.61},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, f.trips.created)
}

func TestUploadTripRejectsOverlap(t *testing.T) {
	f := newTripFixture()
	f.vehicles.vehicles[1] = &model.Vehicle{ID: 1, Plate: "A123BC"}
	f.trips.overlap = true

	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	_, err := f.service.UploadTrip(context.Background(), 1, start, start.Add(time.Hour), nil)
	assert.ErrorIs(t, err, ErrTripOverlap)
	assert.Empty(t, f.trips.created)
}

func TestSummariesLocalZoneAndAddresses(t *testing.T) {
	f := newTripFixture()
	enterpriseID := int64(10)
	f.enterprises.enterprises[enterpriseID] = &model.Enterprise{ID: enterpriseID, Name: "Mosgortrans", Timezone: "Europe/Moscow"}
	f.vehicles.vehicles[1] = &model.Vehicle{ID: 1, Plate: "A123BC", EnterpriseID: &enterpriseID}

	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	f.trips.byVehicle[1] = []model.Trip{trip(1, start, end)}
	f.tracks.byVehicle[1] = []model.TrackPoint{
		{VehicleID: 1, Timestamp: start, Latitude: 55.7558, Longitude: 37.6173},
		{VehicleID: 1, Timestamp: end, Latitude: 55.7658, Longitude: 37.6273},
	}

	// the range is entered as naive Moscow wall-clock time
	rangeStart := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	summaries, err := f.service.Summaries(context.Background(), 1, rangeStart, rangeEnd)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	summary := summaries[0]
	assert.Equal(t, "2024-06-01T11:00:00+03:00", summary.StartTimeLocal)
	assert.Equal(t, "2024-06-01T12:00:00+03:00", summary.EndTimeLocal)
	assert.Equal(t, "1h0m0s", summary.Duration)
	assert.Equal(t, []float64{55.7558, 37.6173}, summary.StartLocation)
	assert.Equal(t, []float64{55.7658, 37.6273}, summary.EndLocation)
	assert.Equal(t, "Tverskaya St, 1, Moscow", summary.StartAddress)
	assert.Equal(t, "Tverskaya St, 1, Moscow", summary.EndAddress)
}

func TestSummariesGeocoderFailureDegrades(t *testing.T) {
	f := newTripFixture()
	f.geocoder.err = errors.New("nominatim unreachable")
	f.vehicles.vehicles[1] = &model.Vehicle{ID: 1, Plate: "A123BC"}

	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	f.trips.byVehicle[1] = []model.Trip{trip(1, start, end)}
	f.tracks.byVehicle[1] = []model.TrackPoint{
		{VehicleID: 1, Timestamp: start, Latitude: 55.75, Longitude: 37.61},
	}

	summaries, err := f.service.Summaries(context.Background(), 1,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "", summaries[0].StartAddress)
	assert.Equal(t, "", summaries[0].EndAddress)
}

func TestSummariesTripWithoutPoints(t *testing.T) {
	f := newTripFixture()
	f.vehicles.vehicles[1] = &model.Vehicle{ID: 1, Plate: "A123BC"}

	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	f.trips.byVehicle[1] = []model.Trip{trip(1, start, start.Add(time.Hour))}

	summaries, err := f.service.Summaries(context.Background(), 1,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].StartLocation)
	assert.Nil(t, summaries[0].EndLocation)
}

func TestSummariesUnknownVehicle(t *testing.T) {
	f := newTripFixture()

	_, err := f.service.Summaries(context.Background(), 404, time.Now(), time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}
