// Package geospatial has the great-circle helpers used to lay out migration maps.
package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineKm(lat1, lon1, lat2, lon2) * 1000
}

// HaversineKm is Haversine in kilometres.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

// PadBounds grows a box by marginMeters on every side, clamped to valid WGS 84 ranges.
// Each corner is padded at its own latitude.
func PadBounds(minLat, minLon, maxLat, maxLon, marginMeters float64) (float64, float64, float64, float64) {
	lo1, lo2, _, _ := BoundingBox(minLat, minLon, marginMeters)
	_, _, hi1, hi2 := BoundingBox(maxLat, maxLon, marginMeters)

	return clamp(lo1, -90, 90), clamp(lo2, -180, 180), clamp(hi1, -90, 90), clamp(hi2, -180, 180)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
