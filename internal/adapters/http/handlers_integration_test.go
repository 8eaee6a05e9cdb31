//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samirrijal/butterflyguide/internal/adapters/http"
	"github.com/samirrijal/butterflyguide/internal/adapters/memory"
	"github.com/samirrijal/butterflyguide/internal/adapters/postgres"
	"github.com/samirrijal/butterflyguide/internal/catalog"
	"github.com/samirrijal/butterflyguide/internal/core/classifier"
	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/migration"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
	"github.com/samirrijal/butterflyguide/internal/pkg/config"
)

// setupTestDB connects to the test database and recreates the identifications table.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("butterfly-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	for _, f := range []string{"001_identifications.down.sql", "001_identifications.up.sql"} {
		sql, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", f))
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Pool.Exec(ctx, string(sql)); err != nil {
			t.Fatalf("apply %s: %v", f, err)
		}
	}
	return db
}

// setupTestDeps wires the real Postgres history with in-memory cache.
func setupTestDeps(t *testing.T, db *postgres.DB) *http.Dependencies {
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	cls, err := classifier.New(cat.KeywordSets(), classifier.NewSeededSource(1))
	if err != nil {
		t.Fatalf("classifier: %v", err)
	}
	store, err := migration.NewStore(cat.Timelines())
	if err != nil {
		t.Fatalf("migration store: %v", err)
	}
	cache := memory.NewCache()

	return &http.Dependencies{
		Identifications: usecases.NewIdentificationService(cls, postgres.NewIdentificationRepo(db), nil),
		Species:         usecases.NewSpeciesService(cat.Profiles()),
		Migration:       usecases.NewMigrationService(store, cache),
		Quiz:            usecases.NewQuizService(cat.Profiles(), cache, classifier.NewSource()),
		DB:              db,
		Cache:           cache,
	}
}

// TestIdentify_Integration_WithRealDB records identifications and reads them back.
func TestIdentify_Integration_WithRealDB(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	app := setupApp(setupTestDeps(t, db))

	for _, text := range []string{"orange black veins", "shiny blue morpho"} {
		status, body := postJSON(t, app, "/v1/identifications", `{"text":"`+text+`"}`)
		if status != 201 {
			t.Fatalf("identify %q: expected 201, got %d: %s", text, status, body)
		}
		time.Sleep(5 * time.Millisecond) // distinct created_at
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/identifications", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Identification `json:"data"`
		Pagination struct{ Total int }     `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Pagination.Total != 2 {
		t.Fatalf("expected 2 identifications, got %d", result.Pagination.Total)
	}
	if result.Data[0].Species != domain.BlueMorpho || result.Data[1].Species != domain.Monarch {
		t.Errorf("expected newest first, got %s, %s", result.Data[0].Species, result.Data[1].Species)
	}
}

// TestReady_Integration checks readiness against a live database.
func TestReady_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	app := setupApp(setupTestDeps(t, db))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
