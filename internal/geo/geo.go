/**
 * @description
 * Small geographic helpers backing the vendor map view: great-circle
 * distance for the radius filter and a circle polygon for the map overlay.
 */

package geo

import "math"

// EarthRadiusKm is the mean earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HaversineKm returns the great-circle distance between two points in
// kilometres.
func HaversineKm(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sinLng*sinLng
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// WithinRadius reports whether b lies within radiusKm of a.
func WithinRadius(a, b Point, radiusKm float64) bool {
	if radiusKm < 0 {
		return false
	}
	return HaversineKm(a, b) <= radiusKm
}

// CirclePolygon approximates a circle of radiusKm around center with a
// closed ring of `segments` points (first point repeated at the end), in the
// order the map overlay expects. Fewer than 3 segments falls back to 32.
func CirclePolygon(center Point, radiusKm float64, segments int) []Point {
	if segments < 3 {
		segments = 32
	}
	angularDistance := radiusKm / EarthRadiusKm
	latRad := radians(center.Lat)
	lngRad := radians(center.Lng)

	ring := make([]Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		bearing := 2 * math.Pi * float64(i) / float64(segments)
		pLat := math.Asin(math.Sin(latRad)*math.Cos(angularDistance) +
			math.Cos(latRad)*math.Sin(angularDistance)*math.Cos(bearing))
		pLng := lngRad + math.Atan2(
			math.Sin(bearing)*math.Sin(angularDistance)*math.Cos(latRad),
			math.Cos(angularDistance)-math.Sin(latRad)*math.Sin(pLat),
		)
		ring = append(ring, Point{Lat: degrees(pLat), Lng: degrees(pLng)})
	}
	return ring
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
