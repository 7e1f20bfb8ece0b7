// Package flow implements the staged interview: session registry, phase
// progression, prompt construction, the conversation relay, and account
// conversion.
package flow

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/madcapvc/blueprint/internal/domain"
)

// Registry holds live interview sessions keyed by session ID. Sessions are
// process-local; a restart drops them, while their lead rows persist.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*domain.Session)}
}

// Register adds a session. Intake only registers sessions that have already
// entered the first interview stage, preserving the rule that a registered
// session always has its identity set.
func (r *Registry) Register(sess *domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID] = sess
}

// Get returns the session for an ID, if present.
func (r *Registry) Get(id string) (*domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Remove discards a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Expired returns the IDs of sessions created more than ttl ago. Callers
// remove them one at a time so the write lock is never held across a sweep.
func (r *Registry) Expired(ttl time.Duration) []string {
	cutoff := time.Now().Add(-ttl)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []string
	for id, sess := range r.sessions {
		if sess.CreatedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// NewSessionID generates an opaque session identifier.
func NewSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return "sess_" + hex.EncodeToString(buf), nil
}
