package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

// IdentificationRepo is a bounded, newest-first identification history.
// When full, the oldest entry is evicted.
type IdentificationRepo struct {
	mu       sync.RWMutex
	capacity int
	items    []domain.Identification // oldest first
	ids      map[string]struct{}
}

// NewIdentificationRepo creates a history holding at most capacity entries.
func NewIdentificationRepo(capacity int) *IdentificationRepo {
	if capacity <= 0 {
		capacity = 1000
	}
	return &IdentificationRepo{
		capacity: capacity,
		items:    make([]domain.Identification, 0, min(capacity, 256)),
		ids:      make(map[string]struct{}),
	}
}

func (r *IdentificationRepo) Insert(_ context.Context, ident *domain.Identification) error {
	if ident == nil || ident.ID == "" {
		return fmt.Errorf("insert identification: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(*ident)
	return nil
}

func (r *IdentificationRepo) InsertBatch(_ context.Context, idents []domain.Identification) error {
	for _, ident := range idents {
		if ident.ID == "" {
			return fmt.Errorf("insert identification batch: id is required")
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ident := range idents {
		r.insertLocked(ident)
	}
	return nil
}

func (r *IdentificationRepo) insertLocked(ident domain.Identification) {
	if _, dup := r.ids[ident.ID]; dup {
		return
	}
	if len(r.items) == r.capacity {
		delete(r.ids, r.items[0].ID)
		r.items = append(r.items[:0], r.items[1:]...)
	}
	r.items = append(r.items, ident)
	r.ids[ident.ID] = struct{}{}
}

func (r *IdentificationRepo) Recent(ctx context.Context, limit int) ([]domain.Identification, error) {
	return r.List(ctx, 0, limit)
}

func (r *IdentificationRepo) List(_ context.Context, offset, limit int) ([]domain.Identification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Identification, 0, max(0, min(limit, len(r.items)-offset)))
	for i := len(r.items) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.items[i])
	}
	return out, nil
}

func (r *IdentificationRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *IdentificationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrIdentificationNotFound, id)
	}
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}
	delete(r.ids, id)
	return nil
}
