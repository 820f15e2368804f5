package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

// ErrNotFound reports a lookup for an unknown draft id.
var ErrNotFound = errors.New("draft: not found")

// Store provides CRUD over the draft collection. Construct one per process
// and share it by reference; it is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	key     string
	now     func() time.Time
	newID   func() string
	namer   func(time.Time) string
	logger  *zap.Logger

	drafts []Draft
}

// NewStore builds a store over backend and loads the persisted collection.
// Load failures are logged and leave the store empty.
func NewStore(ctx context.Context, backend Backend, options ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		now:     time.Now,
		newID:   NewID,
		namer:   DefaultName,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.backend == nil {
		s.backend = NewMemoryBackend()
	}
	s.Reload(ctx)
	return s
}

// Key reports the storage key in use.
func (s *Store) Key() string {
	return s.key
}

// Reload replaces the in-memory collection with the persisted blob.
func (s *Store) Reload(ctx context.Context) {
	drafts := s.load(ctx)

	s.mu.Lock()
	s.drafts = drafts
	s.mu.Unlock()
}

func (s *Store) load(ctx context.Context) []Draft {
	raw, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNoBlob) {
		return nil
	}
	if err != nil {
		s.logger.Warn("failed to read drafts", zap.String("key", s.key), zap.Error(err))
		return nil
	}

	var drafts []Draft
	if err := json.Unmarshal(raw, &drafts); err != nil {
		s.logger.Warn("failed to load drafts", zap.String("key", s.key), zap.Error(err))
		return nil
	}
	for i := range drafts {
		drafts[i].Data.EnsureRows()
	}
	return drafts
}

// List returns copies of all drafts in insertion order.
func (s *Store) List() []Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Draft, 0, len(s.drafts))
	for _, d := range s.drafts {
		out = append(out, d.Clone())
	}
	return out
}

// Len reports how many drafts are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}

// Get returns the draft with id. The boolean is false when no such draft
// exists, which callers should treat as an expected outcome.
func (s *Store) Get(id string) (Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.drafts[idx].Clone(), true
	}
	return Draft{}, false
}

// Lookup is Get with an error result wrapping ErrNotFound.
func (s *Store) Lookup(id string) (Draft, error) {
	d, ok := s.Get(id)
	if !ok {
		return Draft{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return d, nil
}

// Save replaces the draft with the same id, refreshing UpdatedAt, or appends
// it when the id is new. The full collection is then persisted in a single
// write. The stored copy is returned even when persisting fails, since the
// in-memory collection already reflects the change and the next save will
// retry the write.
func (s *Store) Save(ctx context.Context, d Draft) (Draft, error) {
	if d.ID == "" {
		return Draft{}, errors.New("draft: id is required")
	}

	stored := d.Clone()
	stored.Data.EnsureRows()

	s.mu.Lock()
	if idx := s.indexOf(stored.ID); idx >= 0 {
		stored.CreatedAt = s.drafts[idx].CreatedAt
		stored.UpdatedAt = s.now().UTC()
		s.drafts[idx] = stored
	} else {
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = s.now().UTC()
		}
		if stored.UpdatedAt.IsZero() {
			stored.UpdatedAt = stored.CreatedAt
		}
		s.drafts = append(s.drafts, stored)
	}
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	return stored.Clone(), err
}

// Delete removes the draft with id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	s.drafts = append(s.drafts[:idx:idx], s.drafts[idx+1:]...)
	return s.persistLocked(ctx)
}

// CreateNew returns a fresh, unsaved draft holding an empty record.
func (s *Store) CreateNew() Draft {
	now := s.now().UTC()
	return Draft{
		ID:        s.newID(),
		Name:      s.namer(now),
		Data:      cv.NewRecord(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.drafts {
		if s.drafts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked(ctx context.Context) error {
	drafts := s.drafts
	if drafts == nil {
		drafts = []Draft{}
	}
	payload, err := json.Marshal(drafts)
	if err != nil {
		return fmt.Errorf("draft: encode collection: %w", err)
	}
	if err := s.backend.Put(ctx, s.key, payload); err != nil {
		s.logger.Error("failed to persist drafts", zap.String("key", s.key), zap.Int("count", len(drafts)), zap.Error(err))
		return fmt.Errorf("draft: persist collection: %w", err)
	}
	return nil
}
