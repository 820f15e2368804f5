package draft

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultKey is the storage key holding the serialised collection.
const DefaultKey = "cv-maker-drafts"

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock injects the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides draft identifier generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithNamer overrides the default draft label derived from the creation time.
func WithNamer(fn func(time.Time) string) Option {
	return func(s *Store) {
		if fn != nil {
			s.namer = fn
		}
	}
}

// WithLogger attaches a zap logger for storage diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewID returns a time-ordered UUIDv7, falling back to a random UUID.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// DefaultName labels a draft with its creation date, e.g. "Draft 1/2/2006".
func DefaultName(created time.Time) string {
	return "Draft " + created.Format("1/2/2006")
}
