package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/samirrijal/butterflyguide/internal/adapters/nats"
	"github.com/samirrijal/butterflyguide/internal/adapters/postgres"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
	"github.com/samirrijal/butterflyguide/internal/pkg/config"
	"github.com/samirrijal/butterflyguide/internal/pkg/logging"
)

// recorder archives identification events from JetStream into Postgres, so the
// history survives API instances that run with the in-memory backend.
func main() {
	cfg, err := config.Load("butterfly-recorder")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, natsadapter.RecorderDurable)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	recorder := usecases.NewRecorderService(postgres.NewIdentificationRepo(db))
	if err := sub.SubscribeIdentifications(ctx, recorder.Record); err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("recorder started", "stream", natsadapter.StreamIdentifications, "durable", natsadapter.RecorderDurable)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("received signal, shutting down recorder", "signal", sig.String())
}
