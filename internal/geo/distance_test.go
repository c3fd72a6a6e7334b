package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceIdenticalPoints(t *testing.T) {
	assert.Equal(t, 0.0, Distance(55.7558, 37.6173, 55.7558, 37.6173))
	assert.Equal(t, 0.0, Distance(0, 0, 0, 0))
	assert.Equal(t, 0.0, Distance(-89.99, 179.5, -89.99, 179.5))
}

func TestDistanceSymmetry(t *testing.T) {
	a := Distance(55.7558, 37.6173, 59.9343, 30.3351)
	b := Distance(59.9343, 30.3351, 55.7558, 37.6173)
	assert.Equal(t, a, b)
}

func TestDistanceLatitudeDegree(t *testing.T) {
	// 0.01 degree of latitude is ~1.11 km anywhere on the sphere
	d := Distance(55.7558, 37.6173, 55.7658, 37.6173)
	assert.InEpsilon(t, 1.11, d, 0.01)
}

func TestPathDistanceEmptyAndSingle(t *testing.T) {
	assert.Equal(t, 0.0, PathDistance(nil))
	assert.Equal(t, 0.0, PathDistance([]Point{}))
	assert.Equal(t, 0.0, PathDistance([]Point{{Lat: 55.75, Lon: 37.61}}))
}

func TestPathDistanceSumsPairwise(t *testing.T) {
	points := []Point{
		{Lat: 55.7558, Lon: 37.6173},
		{Lat: 55.7658, Lon: 37.6273},
		{Lat: 55.7758, Lon: 37.6173},
	}

	want := Distance(points[0].Lat, points[0].Lon, points[1].Lat, points[1].Lon) +
		Distance(points[1].Lat, points[1].Lon, points[2].Lat, points[2].Lon)
	got := PathDistance(points)

	assert.InDelta(t, want, got, 1e-12)

	// a zig-zag path is longer than the straight endpoint distance
	direct := Distance(points[0].Lat, points[0].Lon, points[2].Lat, points[2].Lon)
	assert.Greater(t, got, direct)
}

func TestDistanceNaNPropagates(t *testing.T) {
	assert.True(t, math.IsNaN(Distance(math.NaN(), 0, 0, 0)))
}
