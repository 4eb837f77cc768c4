package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/focusguard/go-focusguard/internal/log"
	"github.com/focusguard/go-focusguard/pkg/focus"
)

// Default manager limits.
const (
	DefaultMaxSessions = 100
	DefaultIdleTimeout = 4 * time.Hour
)

// Manager is a thread-safe registry of monitoring sessions. All sessions
// share one immutable engine configuration; each gets its own engine.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cfg         focus.Config
	maxSessions int
	idleTimeout time.Duration
}

// ManagerStats summarizes the registry for the API surface.
type ManagerStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
	Ended  int `json:"ended"`
	Max    int `json:"max"`
}

// NewManager validates the shared engine configuration once up front so
// session creation can never fail on config.
func NewManager(cfg focus.Config, maxSessions int, idleTimeout time.Duration) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		cfg:         cfg,
		maxSessions: maxSessions,
		idleTimeout: idleTimeout,
	}, nil
}

// Config returns the shared engine configuration.
func (m *Manager) Config() focus.Config {
	return m.cfg
}

// Create starts a new session with a fresh engine. When the registry is
// full, idle sessions are expired first; if it is still full, ErrLimit.
func (m *Manager) Create(metadata map[string]string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.maxSessions {
		m.expireIdleLocked(time.Now())
		if len(m.sessions) >= m.maxSessions {
			return nil, ErrLimit
		}
	}

	engine, err := focus.NewEngine(m.cfg)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		Metadata:     metadata,
		status:       StatusActive,
		lastActivity: now,
		engine:       engine,
	}
	m.sessions[s.ID] = s

	log.Info("session created", "session_id", s.ID, "active", len(m.sessions))
	return s, nil
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// End marks a session as ended. Its statistics and events stay readable
// until the session is deleted.
func (m *Manager) End(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.end(StatusEnded, time.Now())
	log.Info("session ended", "session_id", id, "frames", s.Snapshot().FrameCount)
	return nil
}

// Delete removes a session permanently.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	log.Info("session deleted", "session_id", id)
	return nil
}

// ActiveIDs returns the IDs of all active sessions, sorted for stable
// API output.
func (m *Manager) ActiveIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id, s := range m.sessions {
		if s.Status() == StatusActive {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Stats returns registry counters.
func (m *Manager) Stats() ManagerStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := ManagerStats{Total: len(m.sessions), Max: m.maxSessions}
	for _, s := range m.sessions {
		switch s.Status() {
		case StatusActive:
			stats.Active++
		default:
			stats.Ended++
		}
	}
	return stats
}

// ExpireIdle removes sessions idle longer than the configured timeout.
// Returns how many were expired.
func (m *Manager) ExpireIdle() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expireIdleLocked(time.Now())
}

func (m *Manager) expireIdleLocked(now time.Time) int {
	expired := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastActivity()) > m.idleTimeout {
			s.end(StatusExpired, now)
			delete(m.sessions, id)
			expired++
			log.Warn("session expired", "session_id", id)
		}
	}
	return expired
}
