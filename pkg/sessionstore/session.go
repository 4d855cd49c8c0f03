// Package sessionstore implements the Session Store (C11): an append-only
// chat log plus a latest pipeline-state snapshot per (user, session_id).
// Adapted from the teacher's pkg/session package — same per-session
// RWMutex and Clone()-for-safe-reads idiom — generalised from a single
// session-id key to the composite (user, session) key SPEC_FULL.md §4.11
// requires, with two added query methods (LastN, LastAssistantMetadata)
// the Supervisor and Pipeline Controller need for history-prompt building
// and continuation resumption.
package sessionstore

import (
	"sync"
	"time"

	"github.com/bowjob/jobagent/pkg/models"
)

// Session holds one user's conversation log and pipeline snapshot. All
// mutation goes through its methods, which take mu; external readers must
// use Clone() rather than touching fields directly (the Messages slice is
// not safe to read concurrently with AddMessage without it).
type Session struct {
	UserID    string
	SessionID string
	Messages  []models.Message
	// PipelineState is an opaque per-application snapshot blob owned by
	// pkg/pipeline; the session store only persists and returns it.
	PipelineState map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time

	mu sync.RWMutex
}

// AddMessage appends a message to the log (thread-safe).
func (s *Session) AddMessage(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
}

// SetPipelineState replaces the pipeline snapshot for a given application
// id (thread-safe). Passing a nil value clears it.
func (s *Session) SetPipelineState(applicationID string, state any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PipelineState == nil {
		s.PipelineState = make(map[string]any)
	}
	if state == nil {
		delete(s.PipelineState, applicationID)
	} else {
		s.PipelineState[applicationID] = state
	}
	s.UpdatedAt = time.Now()
}

// PipelineStateFor returns the snapshot for an application id, if any.
func (s *Session) PipelineStateFor(applicationID string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.PipelineState[applicationID]
	return v, ok
}

// Clone returns a deep-enough copy safe for a caller to read without
// holding the session's lock, matching the teacher's Session.Clone.
func (s *Session) Clone() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]models.Message, len(s.Messages))
	copy(messages, s.Messages)

	state := make(map[string]any, len(s.PipelineState))
	for k, v := range s.PipelineState {
		state[k] = v
	}

	return Session{
		UserID:        s.UserID,
		SessionID:     s.SessionID,
		Messages:      messages,
		PipelineState: state,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// LastN returns (a copy of) the last n messages, oldest first. Used by the
// Supervisor to build the bounded history prompt for intent classification
// (SPEC_FULL.md §4.9: "last ~8 non-action messages").
func (s *Session) LastN(n int) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || len(s.Messages) == 0 {
		return nil
	}
	start := 0
	if len(s.Messages) > n {
		start = len(s.Messages) - n
	}
	out := make([]models.Message, len(s.Messages)-start)
	copy(out, s.Messages[start:])
	return out
}

// LastAssistantMetadata scans backward (bounded to the last `bound`
// messages) for the most recent assistant message carrying metadata,
// needed by the continuation intent (SPEC_FULL.md §4.9).
func (s *Session) LastAssistantMetadata(bound int) (models.MessageMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if bound > 0 && len(s.Messages) > bound {
		start = len(s.Messages) - bound
	}
	for i := len(s.Messages) - 1; i >= start; i-- {
		m := s.Messages[i]
		if m.Role == models.RoleAssistant && m.Metadata != nil {
			return m.Metadata, true
		}
	}
	return nil, false
}
