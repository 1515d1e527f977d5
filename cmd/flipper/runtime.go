package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/icook/tiny-flipper/config"
	"github.com/icook/tiny-flipper/db"
	"github.com/icook/tiny-flipper/engine"
	"github.com/icook/tiny-flipper/storage/mem"
	"github.com/icook/tiny-flipper/storage/sqlite"
)

// runtime is everything a command needs to talk to contracts.
type runtime struct {
	cfg    config.Config
	log    *slog.Logger
	engine *engine.Engine
	close  func() error
}

func openRuntime(ctx context.Context, logOut io.Writer, reg prometheus.Registerer) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := cfg.NewLogger(logOut)

	var (
		driver db.StorageDriver
		closer = func() error { return nil }
	)
	switch cfg.Storage {
	case config.StorageMem:
		driver = mem.NewMemStore()
	case config.StorageSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, errors.Wrap(err, "open storage")
		}
		driver = s
		closer = s.Close
	}

	eng := engine.New(db.NewStore(driver),
		engine.WithLogger(log),
		engine.WithMetrics(engine.NewMetrics(reg)),
	)
	return &runtime{cfg: cfg, log: log, engine: eng, close: closer}, nil
}

// openLocalRuntime is used by one-shot commands, which keep stdout for
// results and only log warnings and up.
func openLocalRuntime(ctx context.Context) (*runtime, error) {
	return openRuntime(ctx, os.Stderr, nil)
}
