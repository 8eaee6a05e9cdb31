package ports

import (
	"context"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

// IdentificationRepository persists the append-only identification history.
type IdentificationRepository interface {
	// Insert stores an identification. Inserting an ID that already exists is a no-op.
	Insert(ctx context.Context, ident *domain.Identification) error
	InsertBatch(ctx context.Context, idents []domain.Identification) error
	// Recent returns at most limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Identification, error)
	// List returns a newest-first page of the history.
	List(ctx context.Context, offset, limit int) ([]domain.Identification, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

// MigrationStore is the read-only migration dataset.
type MigrationStore interface {
	Waypoints(species domain.SpeciesID) ([]domain.Waypoint, error)
	WaypointAtMonth(species domain.SpeciesID, month domain.Month) (domain.Waypoint, error)
	Species() []domain.SpeciesID
}
