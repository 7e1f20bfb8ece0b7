package flow

import (
	"strings"
	"testing"
	"time"

	"github.com/madcapvc/blueprint/internal/domain"
)

func TestRegistryRegisterGetRemove(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	sess := &domain.Session{ID: "sess_1", Phase: domain.PhaseValidation}

	r.Register(sess)
	got, ok := r.Get("sess_1")
	if !ok || got != sess {
		t.Fatal("registered session not retrievable")
	}

	r.Remove("sess_1")
	if _, ok := r.Get("sess_1"); ok {
		t.Error("removed session still retrievable")
	}
}

func TestSweepDiscardsOnlyExpiredSessions(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	stale := &domain.Session{
		ID:        "sess_stale",
		Phase:     domain.PhaseBrand,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	fresh := &domain.Session{
		ID:        "sess_fresh",
		Phase:     domain.PhaseValidation,
		CreatedAt: time.Now(),
	}
	r.Register(stale)
	r.Register(fresh)

	expired := r.Expired(time.Hour)
	if len(expired) != 1 || expired[0] != "sess_stale" {
		t.Fatalf("Expired returned %v, want [sess_stale]", expired)
	}

	sweepExpiredSessions(r, time.Hour)

	if _, ok := r.Get("sess_stale"); ok {
		t.Error("expired session survived the sweep")
	}
	if _, ok := r.Get("sess_fresh"); !ok {
		t.Error("live session was swept")
	}
	if got := r.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestNewSessionIDIsUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewSessionID()
		if err != nil {
			t.Fatalf("NewSessionID failed: %v", err)
		}
		if !strings.HasPrefix(id, "sess_") {
			t.Fatalf("unexpected id format: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id: %q", id)
		}
		seen[id] = true
	}
}
