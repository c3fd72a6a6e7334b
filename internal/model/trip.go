package model

import "time"

// Trip is a contiguous motion interval of one vehicle. Trips of the same
// vehicle never overlap; the store enforces this at write time and the
// aggregation code relies on it as a precondition.
type Trip struct {
	ID              int64
	VehicleID       int64
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int64
}

func (t *Trip) Duration() time.Duration {
	return time.Duration(t.DurationSeconds) * time.Second
}

// TrackPoint is a single timestamped GPS observation. Immutable once written.
type TrackPoint struct {
	ID        int64
	VehicleID int64
	Timestamp time.Time
	Latitude  float64
	Longitude float64
}
