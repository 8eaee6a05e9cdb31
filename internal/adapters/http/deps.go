package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/butterflyguide/internal/core/ports"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
)

// Pinger is a backend that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Identifications *usecases.IdentificationService
	Species         *usecases.SpeciesService
	Migration       *usecases.MigrationService
	Quiz            *usecases.QuizService

	// Optional infrastructure, checked by /v1/ready. Nil means not configured.
	NATS  *nats.Conn
	DB    Pinger
	Cache ports.CacheService
}
