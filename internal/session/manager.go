package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/integrity/internal/history"
	"github.com/hyperjump/integrity/internal/pipeline"
	"github.com/hyperjump/integrity/internal/reportsearch"
	"go.uber.org/zap"
)

// Manager creates, looks up, and discards sessions.
type Manager struct {
	pipeline *pipeline.Pipeline
	capacity int
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns a manager whose sessions run p and keep capacity records.
func NewManager(p *pipeline.Pipeline, capacity int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		pipeline: p,
		capacity: capacity,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new empty session.
func (m *Manager) Create() (*Session, error) {
	idx, err := reportsearch.New()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	id := uuid.NewString()
	s := &Session{
		ID:       id,
		Created:  time.Now(),
		store:    history.NewStore(m.capacity),
		index:    idx,
		pipeline: m.pipeline,
		logger:   m.logger.With(zap.String("session", id)),
		progress: pipeline.Progress{State: pipeline.StateIdle},
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	s.logger.Info("session created")
	return s, nil
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Discard drops the session and everything it holds. It reports whether the session existed.
func (m *Manager) Discard(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}
	if err := s.close(); err != nil {
		s.logger.Warn("failed to close session index", zap.Error(err))
	}
	s.logger.Info("session discarded")
	return true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close discards every session.
func (m *Manager) Close() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	for _, id := range ids {
		m.Discard(id)
	}
}
