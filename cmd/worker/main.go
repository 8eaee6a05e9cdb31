package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/butterflyguide/internal/adapters/memory"
	natsadapter "github.com/samirrijal/butterflyguide/internal/adapters/nats"
	"github.com/samirrijal/butterflyguide/internal/adapters/postgres"
	"github.com/samirrijal/butterflyguide/internal/catalog"
	"github.com/samirrijal/butterflyguide/internal/core/classifier"
	"github.com/samirrijal/butterflyguide/internal/core/ports"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
	"github.com/samirrijal/butterflyguide/internal/pkg/config"
	"github.com/samirrijal/butterflyguide/internal/pkg/logging"
	"github.com/samirrijal/butterflyguide/internal/workflows"
)

func main() {
	cfg, err := config.Load("butterfly-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	cls, err := classifier.New(cat.KeywordSets(), classifier.SourceFromSeed(cfg.Classifier.Seed))
	if err != nil {
		log.Fatalf("classifier: %v", err)
	}

	var history ports.IdentificationRepository
	if cfg.History.Backend == config.HistoryPostgres {
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()
		history = postgres.NewIdentificationRepo(db)
	} else {
		history = memory.NewIdentificationRepo(cfg.History.Capacity)
	}

	acts := &workflows.IdentificationActivities{
		// The workflow publishes itself, so the service gets no publisher.
		Identifications: usecases.NewIdentificationService(cls, history, nil),
		History:         history,
	}
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("nats: %v", err)
		}
		defer pub.Close()
		acts.Events = pub
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.IdentificationWorkflow)
	w.RegisterActivity(acts)

	slog.Info("identification worker started", "task_queue", cfg.Temporal.TaskQueue, "history", cfg.History.Backend)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
