// Package migration holds the read-only per-species migration timelines.
package migration

import (
	"fmt"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

// Store answers waypoint lookups. It is immutable after NewStore and safe for concurrent use.
type Store struct {
	order     []domain.SpeciesID
	timelines map[domain.SpeciesID][]domain.Waypoint
}

// NewStore copies and validates the timelines. Each timeline must be non-empty with
// valid, unique month labels and in-range coordinates; authored order is kept.
func NewStore(timelines []domain.MigrationTimeline) (*Store, error) {
	s := &Store{timelines: make(map[domain.SpeciesID][]domain.Waypoint, len(timelines))}

	for _, tl := range timelines {
		if _, dup := s.timelines[tl.Species]; dup {
			return nil, fmt.Errorf("migration: species %q listed twice", tl.Species)
		}
		if len(tl.Waypoints) == 0 {
			return nil, fmt.Errorf("migration: species %q has no waypoints", tl.Species)
		}

		months := make(map[domain.Month]struct{}, len(tl.Waypoints))
		for i, w := range tl.Waypoints {
			if !w.Month.Valid() {
				return nil, fmt.Errorf("migration: %s waypoint %d: %w: %q", tl.Species, i, domain.ErrInvalidMonth, w.Month)
			}
			if _, dup := months[w.Month]; dup {
				return nil, fmt.Errorf("migration: %s: month %s appears twice", tl.Species, w.Month)
			}
			months[w.Month] = struct{}{}
			if !w.Point().Valid() {
				return nil, fmt.Errorf("migration: %s %s: coordinates (%.4f, %.4f) out of range",
					tl.Species, w.Month, w.Latitude, w.Longitude)
			}
		}

		s.order = append(s.order, tl.Species)
		s.timelines[tl.Species] = append([]domain.Waypoint(nil), tl.Waypoints...)
	}

	return s, nil
}

// Waypoints returns a copy of the species' timeline in authored order.
func (s *Store) Waypoints(species domain.SpeciesID) ([]domain.Waypoint, error) {
	wps, ok := s.timelines[species]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSpecies, species)
	}
	return append([]domain.Waypoint(nil), wps...), nil
}

// WaypointAtMonth returns the species' waypoint for month. Months are species-specific:
// callers should pick from that species' own Waypoints.
func (s *Store) WaypointAtMonth(species domain.SpeciesID, month domain.Month) (domain.Waypoint, error) {
	wps, ok := s.timelines[species]
	if !ok {
		return domain.Waypoint{}, fmt.Errorf("%w: %q", domain.ErrUnknownSpecies, species)
	}
	for _, w := range wps {
		if w.Month == month {
			return w, nil
		}
	}
	return domain.Waypoint{}, fmt.Errorf("%w: %s has no waypoint in %q", domain.ErrMonthNotFound, species, month)
}

// Timeline returns the species' timeline.
func (s *Store) Timeline(species domain.SpeciesID) (domain.MigrationTimeline, error) {
	wps, err := s.Waypoints(species)
	if err != nil {
		return domain.MigrationTimeline{}, err
	}
	return domain.MigrationTimeline{Species: species, Waypoints: wps}, nil
}

// Species lists the species with a timeline, in load order.
func (s *Store) Species() []domain.SpeciesID {
	return append([]domain.SpeciesID(nil), s.order...)
}
