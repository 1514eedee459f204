package agent

import (
	"sync"
	"time"
)

// MemoryStore keeps sessions in a process-local map. Suitable for a single
// server process; sessions are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Load returns the session for id, or (nil, nil) if none exists.
func (ms *MemoryStore) Load(id string) (*Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.sessions[id], nil
}

// Save stores the session under its ID.
func (ms *MemoryStore) Save(sess *Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[sess.ID] = sess
	return nil
}

// Sweep drops sessions idle since before the cutoff and returns how many
// were removed.
func (ms *MemoryStore) Sweep(olderThan time.Time) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	n := 0
	for id, sess := range ms.sessions {
		if sess.LastActive.Before(olderThan) {
			delete(ms.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of live sessions.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.sessions)
}
