package session

import (
	"sync"
	"testing"
)

func TestCreateGeneratesDistinctIDs(t *testing.T) {
	r := NewRegistry()
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		id := r.Create()
		if seen[id] {
			t.Fatalf("duplicate session id generated: %s", id)
		}
		seen[id] = true
	}
	if r.Len() != 10000 {
		t.Fatalf("expected 10000 live sessions, got %d", r.Len())
	}
}

func TestRemoveReturnsTranscriptOnceOnly(t *testing.T) {
	r := NewRegistry()
	id := r.Create()

	if !r.Append(id, "first") {
		t.Fatalf("append on live session rejected")
	}
	if !r.Append(id, "second") {
		t.Fatalf("append on live session rejected")
	}

	got := r.Remove(id)
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("unexpected transcript: %v", got)
	}

	if again := r.Remove(id); again != nil {
		t.Fatalf("second remove should return nil, got %v", again)
	}
	if r.Append(id, "late") {
		t.Fatalf("append after removal should be rejected")
	}
	if _, ok := r.Get(id); ok {
		t.Fatalf("removed session still retrievable")
	}
}

func TestRemoveUnknownIDIsHarmless(t *testing.T) {
	r := NewRegistry()
	if got := r.Remove("never-existed"); got != nil {
		t.Fatalf("expected nil for unknown id, got %v", got)
	}
}

func TestTranscriptReturnsCopy(t *testing.T) {
	r := NewRegistry()
	id := r.Create()
	r.Append(id, "one")

	s, ok := r.Get(id)
	if !ok {
		t.Fatalf("session not found")
	}
	snapshot := s.Transcript()
	snapshot[0] = "mutated"

	if got := r.Remove(id); got[0] != "one" {
		t.Fatalf("buffer mutated through snapshot: %v", got)
	}
}

func TestConcurrentSessionsDoNotInterfere(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := r.Create()
			for j := 0; j < 100; j++ {
				r.Append(id, "fragment")
			}
			if got := r.Remove(id); len(got) != 100 {
				t.Errorf("expected 100 fragments, got %d", len(got))
			}
		}()
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d sessions", r.Len())
	}
}
