package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/butterflyguide/internal/adapters/http"
	"github.com/samirrijal/butterflyguide/internal/adapters/memory"
	natsadapter "github.com/samirrijal/butterflyguide/internal/adapters/nats"
	"github.com/samirrijal/butterflyguide/internal/adapters/postgres"
	"github.com/samirrijal/butterflyguide/internal/adapters/valkey"
	"github.com/samirrijal/butterflyguide/internal/catalog"
	"github.com/samirrijal/butterflyguide/internal/core/classifier"
	"github.com/samirrijal/butterflyguide/internal/core/migration"
	"github.com/samirrijal/butterflyguide/internal/core/ports"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
	"github.com/samirrijal/butterflyguide/internal/pkg/config"
	"github.com/samirrijal/butterflyguide/internal/pkg/logging"
	"github.com/samirrijal/butterflyguide/internal/pkg/metrics"
	"github.com/samirrijal/butterflyguide/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("butterfly-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Reference data
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	cls, err := classifier.New(cat.KeywordSets(), classifier.SourceFromSeed(cfg.Classifier.Seed))
	if err != nil {
		log.Fatalf("classifier: %v", err)
	}
	store, err := migration.NewStore(cat.Timelines())
	if err != nil {
		log.Fatalf("migration store: %v", err)
	}

	deps := &http.Dependencies{}

	// History
	var history ports.IdentificationRepository
	switch cfg.History.Backend {
	case config.HistoryPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		history = postgres.NewIdentificationRepo(db)
		deps.DB = db
		go reportPoolStats(ctx, db)
	default:
		history = memory.NewIdentificationRepo(cfg.History.Capacity)
	}

	// Cache
	var cache ports.CacheService
	if cfg.Valkey.Enabled {
		vc, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, using in-memory cache", "error", err)
		} else {
			defer vc.Close()
			cache = vc
		}
	}
	if cache == nil {
		cache = memory.NewCache()
	}
	deps.Cache = cache

	// NATS
	var events ports.EventPublisher
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			events = pub
		}

		// Raw NATS connection for WebSocket relay
		nc, err := natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
		} else {
			defer drain(nc)
			deps.NATS = nc
		}
	}

	// Use cases
	deps.Identifications = usecases.NewIdentificationService(cls, history, events)
	deps.Species = usecases.NewSpeciesService(cat.Profiles())
	deps.Migration = usecases.NewMigrationService(store, cache)
	deps.Quiz = usecases.NewQuizService(cat.Profiles(), cache, classifier.NewSource())

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    4 * 1024 * 1024, // pictures for /v1/identifications/upload
		AppName:      "Butterfly Guide API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "history", cfg.History.Backend)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// reportPoolStats refreshes the DB pool gauges until ctx is done.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	var lastEmpty int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lastEmpty = metrics.UpdateDBPoolMetrics(db.Stat(), lastEmpty)
		}
	}
}

func drain(nc *nats.Conn) {
	if err := nc.Drain(); err != nil {
		slog.Warn("nats drain", "error", err)
	}
}
