package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

// ErrCacheMiss is returned by CacheService.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishIdentification(ctx context.Context, ident *domain.Identification) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeIdentifications(ctx context.Context, handler func(ctx context.Context, ident *domain.Identification) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
	// Take atomically reads and removes key. Only one of several concurrent
	// callers gets the value; the rest see ErrCacheMiss.
	Take(ctx context.Context, key string) ([]byte, error)
}

// RandomSource supplies the entropy behind random picks.
type RandomSource interface {
	// Pick returns an integer in [0, n). n is always positive.
	Pick(n int) int
}

// SpeciesClassifier turns free text into a single species verdict.
type SpeciesClassifier interface {
	Classify(description string) domain.Classification
}
