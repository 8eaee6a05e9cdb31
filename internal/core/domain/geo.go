package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within the WGS 84 range.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// GeoLineString represents an ordered sequence of geographic coordinates.
type GeoLineString struct {
	Coordinates []GeoPoint `json:"coordinates"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Bounds returns the smallest box containing every coordinate. Zero value for an empty line.
func (l GeoLineString) Bounds() Bounds {
	if len(l.Coordinates) == 0 {
		return Bounds{}
	}
	first := l.Coordinates[0]
	b := Bounds{MinLat: first.Lat, MinLon: first.Lon, MaxLat: first.Lat, MaxLon: first.Lon}
	for _, p := range l.Coordinates[1:] {
		b.MinLat = min(b.MinLat, p.Lat)
		b.MinLon = min(b.MinLon, p.Lon)
		b.MaxLat = max(b.MaxLat, p.Lat)
		b.MaxLon = max(b.MaxLon, p.Lon)
	}
	return b
}

// Center returns the midpoint of the box.
func (b Bounds) Center() GeoPoint {
	return GeoPoint{Lat: (b.MinLat + b.MaxLat) / 2, Lon: (b.MinLon + b.MaxLon) / 2}
}
