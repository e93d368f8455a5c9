// Command nearby-import seeds the shop catalog from FSQ OS Places parquet files.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/app"
	"github.com/kailas-cloud/nearby/internal/config"
	"github.com/kailas-cloud/nearby/internal/importer"
	logpkg "github.com/kailas-cloud/nearby/internal/logger"
)

func main() {
	env := config.GetEnv()
	cfg := config.MustLoad(env)

	var (
		dataDir string
		file    string
		maxRows int
	)
	flag.StringVar(&dataDir, "data-dir", cfg.Import.DataDir, "directory with places parquet files")
	flag.StringVar(&file, "file", "", "single parquet file (overrides -data-dir)")
	flag.IntVar(&maxRows, "max-rows", cfg.Import.MaxRows, "max places to read (0=unlimited)")
	flag.Parse()

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

	im := importer.New(a.Shops, logger.Named("importer"))
	var st importer.Stats
	if file != "" {
		st, err = im.ImportFile(ctx, file, maxRows)
	} else {
		st, err = im.ImportDir(ctx, dataDir, maxRows)
	}
	_ = json.NewEncoder(os.Stdout).Encode(st)
	_ = a.Close()

	if err != nil {
		logger.Error("Import incomplete", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
