package sessionstore

import (
	"fmt"
	"sync"
	"time"
)

// key is the composite (user, session) identity SPEC_FULL.md §4.11 requires.
type key struct {
	userID    string
	sessionID string
}

// Store is the process-wide session registry. Linearisable per (user,
// session): all mutation to one Session goes through that Session's own
// lock, and Store's lock only ever guards the top-level map, never a
// Session's fields, so a long-running turn on one session never blocks
// lookups for another (SPEC_FULL.md §5 "linearisable per (user, session)").
type Store struct {
	mu       sync.RWMutex
	sessions map[key]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[key]*Session)}
}

// GetOrCreate returns the session for (userID, sessionID), creating an
// empty one if absent.
func (st *Store) GetOrCreate(userID, sessionID string) *Session {
	k := key{userID, sessionID}

	st.mu.RLock()
	s, ok := st.sessions[k]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[k]; ok {
		return s
	}
	now := time.Now()
	s = &Session{UserID: userID, SessionID: sessionID, CreatedAt: now, UpdatedAt: now}
	st.sessions[k] = s
	return s
}

// Get returns the session for (userID, sessionID), or an error if it does
// not exist yet.
func (st *Store) Get(userID, sessionID string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[key{userID, sessionID}]
	if !ok {
		return nil, fmt.Errorf("sessionstore: session not found: user=%s session=%s", userID, sessionID)
	}
	return s, nil
}

// List returns cloned snapshots of every session for a user.
func (st *Store) List(userID string) []Session {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]Session, 0)
	for k, s := range st.sessions {
		if k.userID == userID {
			out = append(out, s.Clone())
		}
	}
	return out
}
