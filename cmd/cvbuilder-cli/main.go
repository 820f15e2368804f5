package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/internal/app"
	"github.com/goliatone/go-cvbuilder/internal/config"
	"github.com/goliatone/go-cvbuilder/internal/logger"
	"github.com/goliatone/go-cvbuilder/pkg/form"
	"github.com/goliatone/go-cvbuilder/pkg/orchestrator"
	"github.com/goliatone/go-cvbuilder/pkg/prompt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	dataDir := flag.String("data", cfg.DataDir, "data directory for bolt and file storage")
	storage := flag.String("storage", cfg.Storage, "draft storage: bolt, file, redis, postgres or memory")
	output := flag.String("output", prompt.DefaultOutputPath, "default path for the saved CV")
	verbose := flag.Bool("verbose", false, "log to stderr while prompting")
	flag.Parse()

	cfg.DataDir = *dataDir
	cfg.Storage = *storage
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := zap.NewNop()
	if *verbose {
		if log, err = logger.New(cfg.Env); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, cfg, *output, log)
	switch {
	case err == nil:
	case errors.Is(err, prompt.ErrAborted), errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(130)
	default:
		fmt.Fprintf(os.Stderr, "cvbuilder: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, output string, log *zap.Logger) error {
	store, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	orch := orchestrator.New(store,
		orchestrator.WithLogger(log.Named("orchestrator")),
		orchestrator.WithBaseContext(ctx),
		orchestrator.WithFormOptions(form.WithDebounce(cfg.AutosaveDelay)),
	)
	defer orch.Close()

	session := prompt.NewSession(orch,
		prompt.WithOutputPath(output),
		prompt.WithPageSize(cfg.DefaultPageSize()),
		prompt.WithLogger(log.Named("prompt")),
	)
	return session.Run(ctx)
}
