package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/aiden-perkins/codacy-repo-export/config"
	"github.com/aiden-perkins/codacy-repo-export/internal/codacy"
	"github.com/aiden-perkins/codacy-repo-export/internal/export"
	"github.com/aiden-perkins/codacy-repo-export/internal/observability"
)

func main() {
	ctx := context.Background()

	cfg, err := config.New(ctx)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Codacy.TokenSupplied() {
		logger.Warn("no API token configured; the API will reject the request")
	}

	client := codacy.NewClient(cfg.Codacy, logger)
	runner := export.NewRunner(client, os.Stdout, cfg.Output.Path, logger)

	if err := runner.Run(ctx, cfg.Codacy.Provider, cfg.Codacy.Organization); err != nil {
		logger.Fatal("export failed", zap.Error(err))
	}
}
