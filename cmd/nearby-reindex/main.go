// Command nearby-reindex rebuilds the search projection from the catalog and exits.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/app"
	"github.com/kailas-cloud/nearby/internal/config"
	logpkg "github.com/kailas-cloud/nearby/internal/logger"
)

func main() {
	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}

	st, rebuildErr := a.Indexer.Rebuild(ctx)
	_ = json.NewEncoder(os.Stdout).Encode(st)
	_ = a.Close()

	if rebuildErr != nil {
		logger.Error("Rebuild incomplete", zap.Error(rebuildErr))
		_ = logger.Sync()
		os.Exit(1)
	}
}
