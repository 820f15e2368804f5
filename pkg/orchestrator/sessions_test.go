package orchestrator

import (
	"testing"
	"time"

	"github.com/goliatone/go-cvbuilder/pkg/testsupport"
)

func TestSessions_AcquireCreatesAndReuses(t *testing.T) {
	store := testsupport.NewStore(t)
	sessions := NewSessions(func() *Orchestrator { return New(store) })
	t.Cleanup(sessions.CloseAll)

	first, id := sessions.Acquire("")
	if id == "" || first == nil {
		t.Fatalf("expected a new session")
	}
	again, sameID := sessions.Acquire(id)
	if again != first || sameID != id {
		t.Fatalf("expected the same orchestrator for a known id")
	}
	other, otherID := sessions.Acquire("forged")
	if other == first || otherID == "forged" {
		t.Fatalf("unknown ids must get a fresh session id")
	}
	if sessions.Len() != 2 {
		t.Fatalf("expected two sessions, got %d", sessions.Len())
	}
}

func TestSessions_SweepRemovesIdle(t *testing.T) {
	store := testsupport.NewStore(t)
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	sessions := NewSessions(func() *Orchestrator { return New(store) })
	sessions.now = func() time.Time { return now }

	_, idle := sessions.Acquire("")
	now = now.Add(20 * time.Minute)
	_, fresh := sessions.Acquire("")

	now = now.Add(15 * time.Minute)
	if removed := sessions.Sweep(30 * time.Minute); removed != 1 {
		t.Fatalf("expected one idle session removed, got %d", removed)
	}
	if _, ok := sessions.Lookup(idle); ok {
		t.Fatalf("idle session should be gone")
	}
	if _, ok := sessions.Lookup(fresh); !ok {
		t.Fatalf("fresh session should remain")
	}

	sessions.Remove(fresh)
	if sessions.Len() != 0 {
		t.Fatalf("expected no sessions left")
	}
}
