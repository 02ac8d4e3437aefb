// Package session keeps per-session conversation state in memory.
// Sessions live for the lifetime of the process; there is no
// durability guarantee across restarts.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"docuchat/internal/domain"
)

// Store holds chat sessions keyed by an opaque identifier.
type Store interface {
	Create(title string) *domain.Session
	Get(id string) (*domain.Session, bool)
	Append(id string, msg domain.Message) error
	List() []domain.SessionSummary
	Delete(id string) bool
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewMemoryStore creates an empty session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*domain.Session)}
}

// Create creates a session with a generated id and empty history.
func (s *MemoryStore) Create(title string) *domain.Session {
	if title == "" {
		title = "New Chat"
	}
	now := time.Now()
	sess := &domain.Session{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns a copy of the session so callers cannot mutate stored
// history outside Append.
func (s *MemoryStore) Get(id string) (*domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	cp := *sess
	cp.Messages = append([]domain.Message(nil), sess.Messages...)
	return &cp, true
}

// Append adds a message to the session history in insertion order.
func (s *MemoryStore) Append(id string, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	sess.Messages = append(sess.Messages, msg)
	sess.UpdatedAt = time.Now()
	return nil
}

// List returns summaries of all sessions, most recently updated first.
func (s *MemoryStore) List() []domain.SessionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.SessionSummary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		summaries = append(summaries, domain.SessionSummary{
			SessionID:    sess.ID,
			Title:        sess.Title,
			MessageCount: len(sess.Messages),
			CreatedAt:    sess.CreatedAt,
			UpdatedAt:    sess.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries
}

// Delete removes a session. Returns false when the id is unknown.
func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}
