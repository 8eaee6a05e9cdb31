package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

func TestIdentificationRepo_DeleteMalformedID(t *testing.T) {
	t.Parallel()

	// no pool: the id is rejected before any query runs
	repo := NewIdentificationRepo(nil)

	for _, id := range []string{"", "not-a-uuid", "123", "'; DROP TABLE identifications; --"} {
		err := repo.Delete(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrIdentificationNotFound, id)
	}
}
