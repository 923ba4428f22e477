// Package sessions keeps chat sessions in process memory.
package sessions

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
	"github.com/ternarybob/tenantlaw/internal/models"
)

// NotFoundError is returned when modifying an unknown session
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}

// Store is a mutex guarded map of sessions keyed by a random UUID.
// Callers always receive copies; the stored history is only changed through
// AppendMessage and AddDocument.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	now      func() time.Time
	logger   arbor.ILogger
}

var _ interfaces.SessionStore = (*Store)(nil)

// NewStore creates an empty session store
func NewStore(logger arbor.ILogger) *Store {
	return &Store{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
		logger:   logger,
	}
}

// Create starts a new empty session
func (s *Store) Create() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.create())
}

func (s *Store) create() *models.Session {
	ts := s.now()
	session := &models.Session{
		ID:        uuid.New().String(),
		Messages:  []models.ChatMessage{},
		Documents: []models.ProcessedDocument{},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	s.sessions[session.ID] = session

	s.logger.Debug().Str("session_id", session.ID).Msg("Session created")
	return session
}

// Get returns a copy of the session
func (s *Store) Get(id string) (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return snapshot(session), true
}

// GetOrCreate returns the session for id, starting a new one when id is empty or unknown
func (s *Store) GetOrCreate(id string) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		return snapshot(session)
	}
	return snapshot(s.create())
}

// AppendMessage adds one message to the end of the session history
func (s *Store) AppendMessage(id string, role, content string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	if role != models.RoleUser && role != models.RoleAssistant {
		return nil, fmt.Errorf("invalid message role: %q", role)
	}

	ts := s.now()
	session.Messages = append(session.Messages, models.ChatMessage{
		Role:      role,
		Content:   content,
		CreatedAt: ts,
	})
	session.UpdatedAt = ts

	return snapshot(session), nil
}

// AddDocument records a processed upload against the session
func (s *Store) AddDocument(id string, doc models.ProcessedDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	session.Documents = append(session.Documents, doc)
	session.UpdatedAt = s.now()
	return nil
}

// Clear drops the session. It reports whether the session existed.
func (s *Store) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)

	s.logger.Debug().Str("session_id", id).Msg("Session cleared")
	return true
}

// Count returns the number of live sessions
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func snapshot(session *models.Session) *models.Session {
	cp := *session
	cp.Messages = append([]models.ChatMessage(nil), session.Messages...)
	cp.Documents = append([]models.ProcessedDocument(nil), session.Documents...)
	if cp.Messages == nil {
		cp.Messages = []models.ChatMessage{}
	}
	if cp.Documents == nil {
		cp.Documents = []models.ProcessedDocument{}
	}
	return &cp
}
