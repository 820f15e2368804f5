package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/internal/config"
	"github.com/goliatone/go-cvbuilder/pkg/draft"
)

const boltFile = "drafts.db"

// OpenStore builds the draft store on the backend selected by cfg. The
// returned closer releases backend resources and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*draft.Store, func() error, error) {
	backend, closer, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("draft storage ready",
		zap.String("backend", cfg.Storage),
		zap.String("key", cfg.StorageKey),
	)

	store := draft.NewStore(ctx, backend,
		draft.WithKey(cfg.StorageKey),
		draft.WithLogger(log.Named("draft")),
	)
	return store, closer, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (draft.Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage {
	case config.StorageMemory:
		return draft.NewMemoryBackend(), noop, nil
	case config.StorageFile:
		backend, err := draft.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return backend, noop, nil
	case config.StorageBolt:
		backend, err := draft.OpenBoltBackend(filepath.Join(cfg.DataDir, boltFile))
		if err != nil {
			return nil, nil, err
		}
		return backend, backend.Close, nil
	case config.StorageRedis:
		backend := draft.NewRedisBackend(draft.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB))
		if err := backend.Ping(ctx); err != nil {
			_ = backend.Close()
			return nil, nil, fmt.Errorf("app: redis ping: %w", err)
		}
		return backend, backend.Close, nil
	case config.StoragePostgres:
		pool, err := draft.NewPostgresPool(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		backend := draft.NewPostgresBackend(pool)
		if err := backend.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return backend, func() error { pool.Close(); return nil }, nil
	default:
		return nil, nil, fmt.Errorf("app: unsupported storage %q", cfg.Storage)
	}
}
