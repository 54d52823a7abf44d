package spatial

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/jengzang/birding-planner-go/internal/models"
)

// HaversineDistance calculates the great-circle distance between two points in kilometers
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// Distance returns the great-circle distance between a and b in kilometers.
// It is symmetric and zero for identical coordinates.
func Distance(a, b models.Coordinates) float64 {
	if a == b {
		return 0
	}
	return HaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)
}

// Bearing calculates the initial bearing (forward azimuth) from point 1 to point 2
// Returns bearing in degrees (0-360), where 0 is North, 90 is East, etc.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lonDiff := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(lonDiff) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(lonDiff)
	bearing := math.Atan2(y, x)

	bearingDeg := bearing * 180 / math.Pi
	return math.Mod(bearingDeg+360, 360)
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Heading returns the 8-point compass direction from a to b, or "" when a == b
func Heading(a, b models.Coordinates) string {
	if a == b {
		return ""
	}
	bearing := Bearing(a.Lat, a.Lon, b.Lat, b.Lon)
	idx := int(math.Round(bearing/45)) % len(compassPoints)
	return compassPoints[idx]
}

// Midpoint calculates the midpoint between two points
func Midpoint(a, b models.Coordinates) models.Coordinates {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)

	mid := s2.Interpolate(0.5, s2.PointFromLatLng(p1), s2.PointFromLatLng(p2))
	midLatLng := s2.LatLngFromPoint(mid)

	return models.Coordinates{Lat: midLatLng.Lat.Degrees(), Lon: midLatLng.Lng.Degrees()}
}

// Constants
const (
	EarthRadiusKm = 6371.0 // Earth's mean radius in kilometers
)
