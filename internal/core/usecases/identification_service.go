package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/ports"
	"github.com/samirrijal/butterflyguide/internal/pkg/metrics"
	"github.com/samirrijal/butterflyguide/internal/pkg/telemetry"
)

const (
	// DefaultRecentLimit is the size of the recent-sightings gallery.
	DefaultRecentLimit = 6
	maxRecentLimit     = 100

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// IdentificationService turns descriptions into recorded identifications.
type IdentificationService struct {
	classifier ports.SpeciesClassifier
	history    ports.IdentificationRepository
	events     ports.EventPublisher

	now   func() time.Time
	newID func() string
}

// NewIdentificationService creates a new IdentificationService. events may be nil.
func NewIdentificationService(classifier ports.SpeciesClassifier, history ports.IdentificationRepository, events ports.EventPublisher) *IdentificationService {
	return &IdentificationService{
		classifier: classifier,
		history:    history,
		events:     events,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Classify runs the classifier without side effects. It returns nil for empty input.
func (s *IdentificationService) Classify(_ context.Context, text string, source domain.InputSource) *domain.Identification {
	res := s.classifier.Classify(text)
	if !res.Identified() {
		return nil
	}
	return &domain.Identification{
		ID:        s.newID(),
		Species:   res.Species,
		Outcome:   res.Outcome,
		Score:     res.Score,
		Source:    source,
		Input:     text,
		CreatedAt: s.now().UTC(),
	}
}

// Identify classifies text, records the result and announces it. Empty input returns (nil, nil).
// A failed publish is logged and does not fail the call.
func (s *IdentificationService) Identify(ctx context.Context, text string, source domain.InputSource) (*domain.Identification, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanIdentify)
	defer span.End()

	ident := s.Classify(ctx, text, source)
	if ident == nil {
		span.SetAttributes(attribute.String("outcome", string(domain.OutcomeEmpty)))
		return nil, nil
	}
	span.SetAttributes(
		attribute.String("species", ident.Species.String()),
		attribute.String("outcome", string(ident.Outcome)),
		attribute.String("source", string(ident.Source)),
	)

	if err := s.history.Insert(ctx, ident); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("record identification: %w", err)
	}

	metrics.IdentificationsTotal.WithLabelValues(ident.Species.String(), string(ident.Outcome), string(ident.Source)).Inc()

	if s.events != nil {
		if err := s.events.PublishIdentification(ctx, ident); err != nil {
			metrics.EventPublishErrors.Inc()
			slog.WarnContext(ctx, "publish identification failed", "id", ident.ID, "error", err)
		}
	}

	return ident, nil
}

// Recent returns the newest identifications. limit outside 1..100 becomes DefaultRecentLimit.
func (s *IdentificationService) Recent(ctx context.Context, limit int) ([]domain.Identification, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanRecentSightings)
	defer span.End()

	if limit <= 0 || limit > maxRecentLimit {
		limit = DefaultRecentLimit
	}
	return s.history.Recent(ctx, limit)
}

// HistoryPage clamps paging arguments: a negative offset becomes 0 and a limit
// outside 1..100 becomes 20.
func HistoryPage(offset, limit int) (int, int) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	return max(offset, 0), limit
}

// History returns one newest-first page of the history and the total count.
func (s *IdentificationService) History(ctx context.Context, offset, limit int) ([]domain.Identification, int, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanHistory)
	defer span.End()

	offset, limit = HistoryPage(offset, limit)

	total, err := s.history.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count history: %w", err)
	}
	items, err := s.history.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list history: %w", err)
	}
	return items, total, nil
}
