// Package session owns the lifecycle of live transcription sessions: the
// process-wide registry and the per-connection streaming engine.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the server-side state for one live client connection. The
// transcript buffer only grows while the session is live and is handed back
// exactly once, by Registry.Remove.
type Session struct {
	ID string

	mu         sync.Mutex
	transcript []string
}

func (s *Session) append(text string) {
	s.mu.Lock()
	s.transcript = append(s.transcript, text)
	s.mu.Unlock()
}

// Transcript returns a copy of the fragments accumulated so far.
func (s *Session) Transcript() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Registry is the process-wide table of live sessions. All operations are
// safe for concurrent use; per-session buffers carry their own lock so
// appends on one session never block another.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create registers a new empty session under a fresh unguessable id.
func (r *Registry) Create() string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &Session{ID: id}
	r.mu.Unlock()
	return id
}

// Get looks up a live session. Absence is a normal condition, e.g. a late
// event arriving after teardown.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	return s, ok
}

// Append adds a finalized fragment to the session's buffer. It reports
// whether the session was still registered.
func (r *Registry) Append(id, text string) bool {
	s, ok := r.Get(id)
	if !ok {
		return false
	}
	s.append(text)
	return true
}

// Remove unregisters the session and returns its accumulated transcript.
// Calling it again for the same id returns nil; it never panics.
func (r *Registry) Remove(id string) []string {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return s.Transcript()
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
