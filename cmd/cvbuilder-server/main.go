package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/internal/app"
	"github.com/goliatone/go-cvbuilder/internal/config"
	"github.com/goliatone/go-cvbuilder/internal/logger"
	"github.com/goliatone/go-cvbuilder/pkg/form"
	"github.com/goliatone/go-cvbuilder/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	addr := flag.String("addr", cfg.Addr, "listen address")
	base := flag.String("base", "", "path prefix to mount the app under")
	storage := flag.String("storage", cfg.Storage, "draft storage: bolt, file, redis, postgres or memory")
	dataDir := flag.String("data", cfg.DataDir, "data directory for bolt and file storage")
	flag.Parse()

	cfg.Addr = *addr
	cfg.Storage = *storage
	cfg.DataDir = *dataDir
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded: %s", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *base, log); err != nil {
		sugar.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, base string, log *zap.Logger) error {
	store, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("close draft storage", zap.Error(err))
		}
	}()

	srv, err := server.New(store, nil,
		server.WithLogger(log.Named("server")),
		server.WithSecureCookie(cfg.SecureCookie),
		server.WithDefaultPageSize(cfg.DefaultPageSize()),
		server.WithFormOptions(form.WithDebounce(cfg.AutosaveDelay)),
	)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	pattern, err := srv.RegisterRoutes(mux, base)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go sweepSessions(ctx, srv, cfg.SessionTTL)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.String("mount", pattern))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		srv.Close()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("grace", cfg.ShutdownGrace))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	err = httpServer.Shutdown(shutdownCtx)
	srv.Close()
	return err
}

func sweepSessions(ctx context.Context, srv *server.Server, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			srv.SweepSessions(ttl)
		}
	}
}
