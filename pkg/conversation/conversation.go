// Package conversation maintains per-session, append-only chat history.
package conversation

import (
	"sync"

	"github.com/google/uuid"

	"github.com/chatlytics-io/chatlytics-engine/pkg/models"
)

// Log is an ordered, append-only sequence of role-tagged messages for one
// session. Messages conceptually alternate user/assistant but nothing
// enforces strict alternation. The design assumes at most one in-flight
// question per session; the lock only guards against cross-session
// housekeeping touching the slice mid-append.
type Log struct {
	mu       sync.Mutex
	messages []models.Message
}

// NewLog creates an empty conversation log.
func NewLog() *Log {
	return &Log{}
}

// Append adds a message to the end of the log. No validation is performed
// on the role value or on alternation.
func (l *Log) Append(role models.ChatRole, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, models.Message{Role: role, Content: content})
}

// History returns a snapshot copy of the current ordered sequence.
// Callers may retain or modify the returned slice without corrupting the log.
func (l *Log) History() []models.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Clear empties the log. Idempotent.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// Store maps session IDs to their conversation logs. Logs are created on
// first access and live until the session is removed.
type Store struct {
	mu   sync.RWMutex
	logs map[uuid.UUID]*Log
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{
		logs: make(map[uuid.UUID]*Log),
	}
}

// Get returns the log for a session, creating an empty one on first use.
func (s *Store) Get(sessionID uuid.UUID) *Log {
	s.mu.RLock()
	log, ok := s.logs[sessionID]
	s.mu.RUnlock()
	if ok {
		return log
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if log, ok := s.logs[sessionID]; ok {
		return log
	}
	log = NewLog()
	s.logs[sessionID] = log
	return log
}

// Remove drops a session's log entirely.
func (s *Store) Remove(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, sessionID)
}
