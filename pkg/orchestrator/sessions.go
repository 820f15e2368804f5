package orchestrator

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions keeps one Orchestrator per browser session. The draft store is
// shared; navigation state is not.
type Sessions struct {
	mu      sync.Mutex
	factory func() *Orchestrator
	now     func() time.Time
	items   map[string]*session
}

type session struct {
	orchestrator *Orchestrator
	lastSeen     time.Time
}

// NewSessions builds a session table creating orchestrators with factory.
func NewSessions(factory func() *Orchestrator) *Sessions {
	return &Sessions{
		factory: factory,
		now:     time.Now,
		items:   make(map[string]*session),
	}
}

// Acquire returns the orchestrator for id, creating a session when id is
// empty or unknown. The returned id is the one the caller should remember.
func (s *Sessions) Acquire(id string) (*Orchestrator, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item, ok := s.items[id]; ok && id != "" {
		item.lastSeen = s.now()
		return item.orchestrator, id
	}

	id = uuid.NewString()
	item := &session{orchestrator: s.factory(), lastSeen: s.now()}
	s.items[id] = item
	return item.orchestrator, id
}

// Lookup returns an existing session without creating one.
func (s *Sessions) Lookup(id string) (*Orchestrator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, false
	}
	item.lastSeen = s.now()
	return item.orchestrator, true
}

// Remove closes and forgets a session.
func (s *Sessions) Remove(id string) {
	s.mu.Lock()
	item, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()

	if ok {
		item.orchestrator.Close()
	}
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep closes sessions idle for longer than maxIdle and returns how many
// were removed.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	cutoff := s.now().Add(-maxIdle)
	var stale []*session
	for id, item := range s.items {
		if item.lastSeen.Before(cutoff) {
			stale = append(stale, item)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()

	for _, item := range stale {
		item.orchestrator.Close()
	}
	return len(stale)
}

// CloseAll closes every session.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[string]*session)
	s.mu.Unlock()

	for _, item := range items {
		item.orchestrator.Close()
	}
}
