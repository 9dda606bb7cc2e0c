// Command unisearch answers questions about university prospectuses.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/unisearch/internal/adapters/driven/ai"
	"github.com/custodia-labs/unisearch/internal/adapters/driven/blob/filesystem"
	"github.com/custodia-labs/unisearch/internal/adapters/driven/config/env"
	"github.com/custodia-labs/unisearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/unisearch/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/unisearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/unisearch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/unisearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
	"github.com/custodia-labs/unisearch/internal/core/services"
	"github.com/custodia-labs/unisearch/internal/normalisers"
	"github.com/custodia-labs/unisearch/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	overrides, err := env.Parse(".env")
	if err != nil {
		return report(err)
	}

	configDir, err := file.DefaultDir()
	if err != nil {
		return report(err)
	}
	fileConfig, err := file.NewConfigStore(configDir)
	if err != nil {
		return report(err)
	}
	configStore := env.NewConfigStore(fileConfig, overrides)

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return report(fmt.Errorf("load settings: %w", err))
	}

	snapshots, err := openSnapshots(settings.Storage)
	if err != nil {
		return report(err)
	}
	defer snapshots.Close()

	store, err := memory.OpenDocumentStore(ctx, snapshots)
	if err != nil {
		return report(fmt.Errorf("open document store: %w", err))
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := postprocessors.BuildPipeline(registry, domain.PipelineConfigFor(settings.Pipeline))
	if err != nil {
		return report(fmt.Errorf("build pipeline: %w", err))
	}

	blobs, err := filesystem.New(settings.Storage.BlobDir)
	if err != nil {
		return report(err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return report(err)
	}

	llm := ai.Init(&settings.LLM)
	defer llm.Close()

	cli.SetVersion(version)
	cli.SetStartupWarnings(llm.Warnings)
	cli.SetSettingsService(settingsService)
	cli.SetAnswerService(services.NewAnswerService(store, llm.LLMService, prompts, *settings))
	cli.SetIngestService(services.NewIngestService(
		store, pipeline, blobs, blobs, normalisers.NewDefaultRegistry(), settings.Ingest))
	cli.SetDocumentService(services.NewDocumentService(store))

	// Cobra prints command errors itself.
	return cli.ExecuteContext(ctx)
}

// openSnapshots opens the configured snapshot backend.
func openSnapshots(cfg domain.StorageSettings) (driven.SnapshotStore, error) {
	switch cfg.Backend {
	case domain.StorageBackendSQLite:
		return sqlite.NewStore(cfg.DataDir)
	case domain.StorageBackendJSON, "":
		return jsonfile.NewStore(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func report(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}
