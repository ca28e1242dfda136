package session

import (
	"sync"
	"time"

	"github.com/VivanRajath/Neusearch/internal/catalog"
	"github.com/VivanRajath/Neusearch/internal/chat"
	"github.com/VivanRajath/Neusearch/internal/detail"
	"github.com/VivanRajath/Neusearch/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager is the in-memory session registry. Sessions live for the process
// only and are swept after sitting idle longer than the configured TTL.
type Manager struct {
	engine    *catalog.Engine
	responder chat.Responder
	fetcher   detail.Fetcher
	idleTTL   time.Duration
	logger    *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager.
func NewManager(engine *catalog.Engine, responder chat.Responder, fetcher detail.Fetcher, idleTTL time.Duration) *Manager {
	return &Manager{
		engine:    engine,
		responder: responder,
		fetcher:   fetcher,
		idleTTL:   idleTTL,
		logger:    util.GetLogger(),
		sessions:  make(map[string]*Session),
	}
}

// Create registers a new session with default view state and a greeted
// transcript.
func (m *Manager) Create() *Session {
	s := newSession(uuid.New().String(), m.engine, m.responder, m.fetcher)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	util.SessionsCreatedTotal.Inc()
	m.logger.Info("Session created", zap.String("session_id", s.ID))
	return s
}

// Get looks up a session and marks it as recently used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if ok {
		s.touch()
	}
	return s, ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SweepExpired removes sessions idle longer than the TTL and returns how
// many were dropped.
func (m *Manager) SweepExpired() int {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		util.SessionsExpiredTotal.Add(float64(removed))
		m.logger.Info("Swept idle sessions", zap.Int("removed", removed), zap.Int("remaining", len(m.sessions)))
	}
	return removed
}
