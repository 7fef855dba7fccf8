// Command soundcue reads a video-production cue sheet, searches
// Freesound.org for matching music and sound effects, scores the
// candidates, and downloads the best previews with scoring reports.
//
// Usage:
//
//	soundcue        run the pipeline once
//	soundcue watch  run, then re-run whenever the cue sheet changes
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rifaterdemsahin/soundcue/internal/assistant"
	"github.com/rifaterdemsahin/soundcue/internal/catalog"
	"github.com/rifaterdemsahin/soundcue/internal/config"
	"github.com/rifaterdemsahin/soundcue/internal/download"
	"github.com/rifaterdemsahin/soundcue/internal/freesound"
	"github.com/rifaterdemsahin/soundcue/internal/logging"
	"github.com/rifaterdemsahin/soundcue/internal/watcher"
)

func main() {
	// Local .env files carry the API key during development.
	_ = godotenv.Load()

	watch := false
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "watch":
			watch = true
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\nusage: soundcue [watch]\n", os.Args[1])
			os.Exit(2)
		}
	}

	if err := run(watch); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(watch bool) error {
	configPath := os.Getenv("SC_CONFIG_PATH")
	if configPath == "" {
		configPath = "soundcue.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, logCloser := logging.Setup(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if logCloser != nil {
		defer logCloser.Close() //nolint:errcheck
	}
	slog.SetDefault(logger)

	// A missing key is fatal here, before any requirement processing.
	if cfg.Search.APIKey == "" {
		return fmt.Errorf("FREESOUND_API_KEY is not set")
	}

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer func() {
		if err := cat.Close(); err != nil {
			logger.Error("closing catalog", "error", err)
		}
	}()

	client := freesound.New(cfg.Search.APIKey, logger)
	saver := download.New(client, logger)

	svc := assistant.NewService(client, saver, cat, logger, assistant.Options{
		DocumentPath:       cfg.Input.Document,
		OutputDir:          cfg.Output.Dir,
		MusicTopN:          cfg.Search.MusicTopN,
		EffectTopN:         cfg.Search.EffectTopN,
		MusicPageSize:      cfg.Search.MusicPageSize,
		EffectPageSize:     cfg.Search.EffectPageSize,
		EffectsPerCategory: cfg.Search.EffectsPerCategory,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watch {
		if _, err := svc.Run(ctx); err != nil {
			logger.Error("initial run failed", "error", err)
		}
		w := watcher.NewService(cfg.Input.Document, func(ctx context.Context) error {
			_, err := svc.Run(ctx)
			return err
		}, logger)
		return w.Start(ctx)
	}

	_, err = svc.Run(ctx)
	return err
}
