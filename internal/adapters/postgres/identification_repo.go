package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

const insertIdentificationSQL = `
	INSERT INTO identifications (id, species, outcome, score, source, input, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO NOTHING
`

// IdentificationRepo implements ports.IdentificationRepository with pgx.
type IdentificationRepo struct {
	db *DB
}

func NewIdentificationRepo(db *DB) *IdentificationRepo {
	return &IdentificationRepo{db: db}
}

// Insert stores ident. Re-inserting an existing ID is a no-op, so redelivered events are harmless.
func (r *IdentificationRepo) Insert(ctx context.Context, ident *domain.Identification) error {
	_, err := r.db.Pool.Exec(ctx, insertIdentificationSQL, identificationArgs(ident)...)
	if err != nil {
		return fmt.Errorf("insert identification %s: %w", ident.ID, err)
	}
	return nil
}

// InsertBatch inserts many identifications using pgx.Batch.
func (r *IdentificationRepo) InsertBatch(ctx context.Context, idents []domain.Identification) error {
	if len(idents) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range idents {
		batch.Queue(insertIdentificationSQL, identificationArgs(&idents[i])...)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range idents {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

func (r *IdentificationRepo) Recent(ctx context.Context, limit int) ([]domain.Identification, error) {
	return r.List(ctx, 0, limit)
}

func (r *IdentificationRepo) List(ctx context.Context, offset, limit int) ([]domain.Identification, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, species, outcome, score, source, input, created_at
		FROM identifications
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list identifications: %w", err)
	}
	defer rows.Close()

	idents := make([]domain.Identification, 0, limit)
	for rows.Next() {
		var it domain.Identification
		if err := rows.Scan(&it.ID, &it.Species, &it.Outcome, &it.Score, &it.Source, &it.Input, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan identification: %w", err)
		}
		idents = append(idents, it)
	}
	return idents, rows.Err()
}

func (r *IdentificationRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM identifications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count identifications: %w", err)
	}
	return n, nil
}

// Delete removes one identification. Ids that are not UUIDs cannot exist in
// the table and are reported as not found without a query.
func (r *IdentificationRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrIdentificationNotFound, id)
	}
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM identifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete identification %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrIdentificationNotFound, id)
	}
	return nil
}

func identificationArgs(ident *domain.Identification) []any {
	return []any{
		ident.ID, string(ident.Species), string(ident.Outcome), ident.Score,
		string(ident.Source), ident.Input, ident.CreatedAt,
	}
}
