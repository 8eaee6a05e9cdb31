package domain

import (
	"fmt"
	"strings"
)

// Month is a three-letter calendar month label ("Jan" … "Dec").
type Month string

var monthLabels = []Month{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Months returns the twelve month labels in calendar order.
func Months() []Month {
	out := make([]Month, len(monthLabels))
	copy(out, monthLabels)
	return out
}

// Valid reports whether m is one of the twelve canonical labels.
func (m Month) Valid() bool {
	for _, l := range monthLabels {
		if l == m {
			return true
		}
	}
	return false
}

// ParseMonth accepts a label in any case ("jun", "JUN") and returns the canonical form.
func ParseMonth(raw string) (Month, error) {
	s := strings.TrimSpace(raw)
	if len(s) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, raw)
	}
	m := Month(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, raw)
	}
	return m, nil
}

// Waypoint is one seasonal stop on a species' migration.
type Waypoint struct {
	Month     Month   `json:"month" yaml:"month"`
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
	Place     string  `json:"place" yaml:"place"`
	Reason    string  `json:"reason" yaml:"reason"`
	Fact      string  `json:"fact" yaml:"fact"`
}

// Point returns the waypoint's coordinates.
func (w Waypoint) Point() GeoPoint {
	return GeoPoint{Lat: w.Latitude, Lon: w.Longitude}
}

// Tooltip renders the map hover text: place, reason, then the fun fact.
func (w Waypoint) Tooltip() string {
	return w.Place + "\n" + w.Reason + "\n💡 " + w.Fact
}

// MigrationTimeline is the authored, display-ordered sequence of waypoints for one species.
// The order is not necessarily calendar order and is never re-sorted.
type MigrationTimeline struct {
	Species   SpeciesID  `json:"species"`
	Waypoints []Waypoint `json:"waypoints"`
}

// Path returns the waypoint coordinates in timeline order.
func (t MigrationTimeline) Path() GeoLineString {
	coords := make([]GeoPoint, 0, len(t.Waypoints))
	for _, w := range t.Waypoints {
		coords = append(coords, w.Point())
	}
	return GeoLineString{Coordinates: coords}
}

// WaypointView is a waypoint decorated for a map/timeline renderer.
type WaypointView struct {
	Waypoint
	Species            SpeciesID `json:"species"`
	Index              int       `json:"index"`
	Tooltip            string    `json:"tooltip"`
	DistanceFromPrevKm float64   `json:"distance_from_prev_km"`
}

// TimelineView is a migration timeline ready for rendering.
type TimelineView struct {
	Species         SpeciesID      `json:"species"`
	Waypoints       []WaypointView `json:"waypoints"`
	Path            GeoLineString  `json:"path"`
	Bounds          Bounds         `json:"bounds"`
	TotalDistanceKm float64        `json:"total_distance_km"`
}
