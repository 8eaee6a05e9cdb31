package geospatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Mexico City to Minneapolis, roughly 2 900 km
	d := HaversineKm(19.4, -99.1, 44.9, -93.0)
	assert.InDelta(t, 2880, d, 60)

	assert.InDelta(t, 0, HaversineKm(10, 10, 10, 10), 1e-9)
	assert.InDelta(t, HaversineKm(1, 2, 3, 4), HaversineKm(3, 4, 1, 2), 1e-9)
}

func TestHaversineMeters(t *testing.T) {
	assert.InDelta(t, HaversineKm(51.5, -0.1, 48.8, 2.3)*1000, Haversine(51.5, -0.1, 48.8, 2.3), 1e-6)
}

func TestBoundingBox(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox(0, 0, 111320)
	assert.InDelta(t, -1, minLat, 1e-9)
	assert.InDelta(t, -1, minLon, 1e-9)
	assert.InDelta(t, 1, maxLat, 1e-9)
	assert.InDelta(t, 1, maxLon, 1e-9)
}

func TestPadBounds(t *testing.T) {
	minLat, minLon, maxLat, maxLon := PadBounds(-5, -75, -3, -60, 111320)
	assert.InDelta(t, -6, minLat, 1e-9)
	assert.InDelta(t, -2, maxLat, 1e-9)
	assert.Less(t, minLon, -75.0)
	assert.Greater(t, maxLon, -60.0)

	minLat, _, maxLat, maxLon = PadBounds(89.5, 0, 89.9, 179.9, 500000)
	assert.Less(t, minLat, 89.5)
	assert.Equal(t, 90.0, maxLat)
	assert.Equal(t, 180.0, maxLon)
}
