package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/ports"
	"github.com/samirrijal/butterflyguide/internal/pkg/geospatial"
	"github.com/samirrijal/butterflyguide/internal/pkg/metrics"
	"github.com/samirrijal/butterflyguide/internal/pkg/telemetry"
)

const (
	timelineCacheTTL = 3600 // seconds

	// MapMarginMeters pads the timeline bounds so edge markers are not clipped.
	MapMarginMeters = 200_000
)

// MigrationService renders migration timelines for maps.
type MigrationService struct {
	store ports.MigrationStore
	cache ports.CacheService
}

// NewMigrationService creates a new MigrationService. cache may be nil.
func NewMigrationService(store ports.MigrationStore, cache ports.CacheService) *MigrationService {
	return &MigrationService{store: store, cache: cache}
}

// TimelineCacheKey is the cache key for a species' rendered timeline.
func TimelineCacheKey(species domain.SpeciesID) string {
	return "migration:timeline:" + species.Slug()
}

// Timeline returns the species' waypoints in authored order with tooltips, leg distances,
// the path and padded bounds.
func (s *MigrationService) Timeline(ctx context.Context, species domain.SpeciesID) (*domain.TimelineView, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanMigrationTimeline)
	defer span.End()
	span.SetAttributes(attribute.String("species", species.String()))

	cacheKey := TimelineCacheKey(species)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var view domain.TimelineView
			if err := json.Unmarshal(data, &view); err == nil {
				metrics.CacheHits.WithLabelValues("timeline").Inc()
				return &view, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("timeline").Inc()
	}

	wps, err := s.store.Waypoints(species)
	if err != nil {
		return nil, err
	}

	tl := domain.MigrationTimeline{Species: species, Waypoints: wps}
	view := &domain.TimelineView{
		Species:   species,
		Waypoints: make([]domain.WaypointView, 0, len(wps)),
		Path:      tl.Path(),
	}
	for i := range wps {
		wv := waypointView(species, wps, i)
		view.TotalDistanceKm += wv.DistanceFromPrevKm
		view.Waypoints = append(view.Waypoints, wv)
	}

	b := view.Path.Bounds()
	b.MinLat, b.MinLon, b.MaxLat, b.MaxLon = geospatial.PadBounds(b.MinLat, b.MinLon, b.MaxLat, b.MaxLon, MapMarginMeters)
	view.Bounds = b

	if s.cache != nil {
		if data, err := json.Marshal(view); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, timelineCacheTTL)
		}
	}

	return view, nil
}

// WaypointAt returns the species' waypoint for a month label in any case ("jun", "Jun").
func (s *MigrationService) WaypointAt(ctx context.Context, species domain.SpeciesID, month string) (*domain.WaypointView, error) {
	_, span := telemetry.Tracer().Start(ctx, telemetry.SpanMigrationWaypoint)
	defer span.End()

	m, err := domain.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.WaypointAtMonth(species, m); err != nil {
		return nil, err
	}

	wps, err := s.store.Waypoints(species)
	if err != nil {
		return nil, err
	}
	for i, w := range wps {
		if w.Month == m {
			wv := waypointView(species, wps, i)
			return &wv, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no waypoint in %q", domain.ErrMonthNotFound, species, m)
}

func waypointView(species domain.SpeciesID, wps []domain.Waypoint, i int) domain.WaypointView {
	w := wps[i]
	wv := domain.WaypointView{
		Waypoint: w,
		Species:  species,
		Index:    i,
		Tooltip:  w.Tooltip(),
	}
	if i > 0 {
		prev := wps[i-1]
		wv.DistanceFromPrevKm = geospatial.HaversineKm(prev.Latitude, prev.Longitude, w.Latitude, w.Longitude)
	}
	return wv
}
