package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/dkazarov/fleet-reports/internal/geo"
	"github.com/dkazarov/fleet-reports/internal/model"
	"github.com/dkazarov/fleet-reports/internal/timebucket"
)

// MileageAggregator turns a set of trips into a bucketed mileage series.
// Each trip's distance is the pairwise haversine sum over its track points;
// the whole trip is attributed to the bucket of its start instant, even
// when it crosses a local midnight. Accumulation is per-call local state,
// so concurrent aggregations need no coordination.
type MileageAggregator struct {
	tracks TrackStore
}

func NewMileageAggregator(tracks TrackStore) *MileageAggregator {
	return &MileageAggregator{tracks: tracks}
}

// Aggregate assumes the trips do not overlap; the store enforces that at
// write time and it is not re-verified here. An empty trip set produces an
// empty series, never an error.
func (a *MileageAggregator) Aggregate(ctx context.Context, trips []model.Trip, loc *time.Location, period timebucket.Period) ([]model.MileagePoint, error) {
	buckets := make(map[timebucket.Key]float64)
	for _, trip := range trips {
		points, err := a.tracks.TrackPointsInRange(ctx, trip.VehicleID, trip.StartTime, trip.EndTime)
		if err != nil {
			return nil, err
		}
		key := timebucket.KeyFor(trip.StartTime, loc, period)
		buckets[key] += geo.PathDistance(toGeoPoints(points))
	}
	return sortMileage(buckets), nil
}

// AggregateDriveTime buckets stored trip durations as fractional hours.
// Durations are taken from the trip rows, not recomputed from track points.
func AggregateDriveTime(trips []model.Trip, loc *time.Location, period timebucket.Period) []model.DriveTimePoint {
	buckets := make(map[timebucket.Key]float64)
	for _, trip := range trips {
		key := timebucket.KeyFor(trip.StartTime, loc, period)
		buckets[key] += trip.Duration().Hours()
	}

	keys := sortKeys(buckets)
	series := make([]model.DriveTimePoint, 0, len(keys))
	for _, key := range keys {
		series = append(series, model.DriveTimePoint{
			Time:  key.String(),
			Hours: round2(buckets[key]),
		})
	}
	return series
}

func sortMileage(buckets map[timebucket.Key]float64) []model.MileagePoint {
	keys := sortKeys(buckets)
	series := make([]model.MileagePoint, 0, len(keys))
	for _, key := range keys {
		series = append(series, model.MileagePoint{
			Time:  key.String(),
			Value: round3(buckets[key]),
		})
	}
	return series
}

func sortKeys(buckets map[timebucket.Key]float64) []timebucket.Key {
	keys := make([]timebucket.Key, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

func toGeoPoints(points []model.TrackPoint) []geo.Point {
	result := make([]geo.Point, len(points))
	for i, p := range points {
		result[i] = geo.Point{Lat: p.Latitude, Lon: p.Longitude}
	}
	return result
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
