package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/ports"
	"github.com/samirrijal/butterflyguide/internal/pkg/metrics"
)

// RecorderService archives identification events received from the event bus.
type RecorderService struct {
	history ports.IdentificationRepository
}

// NewRecorderService creates a new RecorderService.
func NewRecorderService(history ports.IdentificationRepository) *RecorderService {
	return &RecorderService{history: history}
}

// Record stores one event. Redelivered events are absorbed by the repository's
// insert-if-absent contract, so Record is safe to call more than once per ID.
func (s *RecorderService) Record(ctx context.Context, ident *domain.Identification) error {
	if ident == nil || ident.ID == "" {
		return fmt.Errorf("record event: id is required")
	}
	if !ident.Species.IsKnown() {
		return fmt.Errorf("record event %s: %w: %q", ident.ID, domain.ErrUnknownSpecies, ident.Species)
	}
	if err := s.history.Insert(ctx, ident); err != nil {
		return fmt.Errorf("record event %s: %w", ident.ID, err)
	}

	metrics.EventsRecorded.WithLabelValues(ident.Species.String()).Inc()
	slog.DebugContext(ctx, "identification archived", "id", ident.ID, "species", ident.Species)
	return nil
}
