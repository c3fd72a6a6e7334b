package geo

import "math"

const earthRadiusKm = 6371

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Distance returns the great-circle distance between two coordinates in
// kilometers, computed with the haversine formula on a sphere of radius
// 6371 km. Identical points yield 0. NaN and Inf inputs propagate.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// PathDistance sums the pairwise haversine distance over an ordered
// sequence of points. Zero or one point yields 0. Every consecutive pair
// contributes as-is: there is no interpolation, smoothing or outlier
// rejection, so GPS noise and large gaps inflate the total.
func PathDistance(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
	}
	return total
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
