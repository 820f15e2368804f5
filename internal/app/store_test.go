package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-cvbuilder/internal/config"
)

func TestOpenStorePersistsAcrossReopen(t *testing.T) {
	for _, storage := range []string{config.StorageFile, config.StorageBolt} {
		t.Run(storage, func(t *testing.T) {
			ctx := context.Background()
			cfg := &config.Config{Storage: storage, DataDir: t.TempDir(), StorageKey: "cv-test"}

			store, closer, err := OpenStore(ctx, cfg, nil)
			if err != nil {
				t.Fatalf("open store: %v", err)
			}
			created := store.CreateNew()
			if _, err := store.Save(ctx, created); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := closer(); err != nil {
				t.Fatalf("close: %v", err)
			}

			reopened, closer, err := OpenStore(ctx, cfg, nil)
			if err != nil {
				t.Fatalf("reopen store: %v", err)
			}
			defer closer()
			if _, ok := reopened.Get(created.ID); !ok {
				t.Fatalf("draft %s not persisted by %s backend", created.ID, storage)
			}
		})
	}
}

func TestOpenStoreBoltFileLocation(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageBolt, DataDir: dir, StorageKey: "cv"}

	_, closer, err := OpenStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer closer()

	if _, err := os.Stat(filepath.Join(dir, boltFile)); err != nil {
		t.Fatalf("expected bolt file: %v", err)
	}
}

func TestOpenStoreMemory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageMemory, StorageKey: "cv"}
	store, closer, err := OpenStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
	if err := closer(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpenStoreUnsupported(t *testing.T) {
	cfg := &config.Config{Storage: "s3", StorageKey: "cv"}
	if _, _, err := OpenStore(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for unsupported storage")
	}
}
