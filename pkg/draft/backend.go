package draft

import (
	"context"
	"errors"
	"sync"
)

// ErrNoBlob is returned by backends when nothing is stored under a key.
var ErrNoBlob = errors.New("draft: no blob stored")

// Backend is the flat key/value persistence the Store writes its collection
// to. Implementations must replace the value for a key in a single operation.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// MemoryBackend keeps blobs in process memory. The zero value is ready to use.
type MemoryBackend struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.blobs[key]
	if !ok {
		return nil, ErrNoBlob
	}
	return append([]byte(nil), value...), nil
}

func (m *MemoryBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.blobs == nil {
		m.blobs = make(map[string][]byte)
	}
	m.blobs[key] = append([]byte(nil), value...)
	return nil
}
