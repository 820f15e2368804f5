package draft

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend stores each key as <dir>/<key>.json. Writes go to a temporary
// file that is renamed over the target.
type FileBackend struct {
	dir string
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend creates dir when needed and returns a backend rooted there.
func NewFileBackend(dir string) (*FileBackend, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("draft: file backend directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("draft: create data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoBlob
	}
	if err != nil {
		return nil, fmt.Errorf("draft: read %s: %w", key, err)
	}
	return data, nil
}

func (f *FileBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := f.path(key)
	tmp, err := os.CreateTemp(f.dir, filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("draft: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("draft: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("draft: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("draft: replace %s: %w", key, err)
	}
	return nil
}

func (f *FileBackend) path(key string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, key)
	return filepath.Join(f.dir, name+".json")
}
