package geospatial

import (
	"math"

	"github.com/parksyhq/parksy/internal/core/domain"
)

const earthRadiusM = 6371000.0

// Haversine calculates the great-circle distance in meters between two
// points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

// DistanceMeters returns the great-circle distance between two points
// truncated to whole meters. Truncation, not rounding: walking-time and
// scoring thresholds depend on it.
func DistanceMeters(a, b domain.GeoPoint) int {
	return int(Haversine(a.Lat, a.Lon, b.Lat, b.Lon))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
