package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/ports"
)

// --- Mock SpeciesClassifier ---

type mockClassifier struct {
	classifyFn func(description string) domain.Classification
}

func (m *mockClassifier) Classify(description string) domain.Classification {
	if m.classifyFn != nil {
		return m.classifyFn(description)
	}
	if description == "" {
		return domain.Classification{Outcome: domain.OutcomeEmpty}
	}
	return domain.Classification{Species: domain.Monarch, Score: 1, Outcome: domain.OutcomeMatched}
}

// --- Mock IdentificationRepository ---

type mockHistory struct {
	insertFn func(ctx context.Context, ident *domain.Identification) error
	recentFn func(ctx context.Context, limit int) ([]domain.Identification, error)
	listFn   func(ctx context.Context, offset, limit int) ([]domain.Identification, error)
	countFn  func(ctx context.Context) (int, error)
	inserted []domain.Identification
}

func (m *mockHistory) Insert(ctx context.Context, ident *domain.Identification) error {
	if m.insertFn != nil {
		if err := m.insertFn(ctx, ident); err != nil {
			return err
		}
	}
	m.inserted = append(m.inserted, *ident)
	return nil
}

func (m *mockHistory) InsertBatch(ctx context.Context, idents []domain.Identification) error {
	return nil
}

func (m *mockHistory) Recent(ctx context.Context, limit int) ([]domain.Identification, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockHistory) List(ctx context.Context, offset, limit int) ([]domain.Identification, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, nil
}

func (m *mockHistory) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return len(m.inserted), nil
}

func (m *mockHistory) Delete(ctx context.Context, id string) error { return nil }

// --- Mock EventPublisher ---

type mockPublisher struct {
	err       error
	published []domain.Identification
}

func (m *mockPublisher) PublishIdentification(ctx context.Context, ident *domain.Identification) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, *ident)
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]int
	getErr error
	sets   int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	m.sets++
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockCache) Take(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	delete(m.data, key)
	return v, nil
}

// --- Fixed RandomSource ---

type fixedRand int

func (f fixedRand) Pick(n int) int { return int(f) % n }
