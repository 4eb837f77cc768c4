// Package session manages the lifecycle of monitoring sessions. Each
// session owns one focus engine; the manager is safe for concurrent use
// while the engine itself stays single-writer, serialized by the
// session's mutex.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/focusguard/go-focusguard/pkg/focus"
	"github.com/focusguard/go-focusguard/pkg/signal"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
	StatusExpired Status = "expired"
)

// Session errors.
var (
	ErrNotFound  = errors.New("session not found")
	ErrNotActive = errors.New("session is not active")
	ErrLimit     = errors.New("maximum concurrent sessions reached")
)

// Session binds one focus engine to one monitored candidate.
type Session struct {
	ID        string
	CreatedAt time.Time
	Metadata  map[string]string

	mu           sync.Mutex
	status       Status
	lastActivity time.Time
	endedAt      time.Time
	engine       *focus.Engine
}

// Process feeds one signal record through the session's engine. Calls are
// serialized per session; rejected frames leave state unchanged.
func (s *Session) Process(rec signal.Record) (focus.FrameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return focus.FrameResult{}, ErrNotActive
	}
	res, err := s.engine.Process(rec)
	if err != nil {
		return focus.FrameResult{}, err
	}
	s.lastActivity = time.Now()
	return res, nil
}

// Snapshot returns the session's current aggregate statistics.
func (s *Session) Snapshot() focus.Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// Events returns a copy of the session's granular event log.
func (s *Session) Events() []focus.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Events().All()
}

// GroupedEvents returns the time-bucketed report view of the event log.
func (s *Session) GroupedEvents(bucketSeconds float64) []focus.EventGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Events().GroupedForReport(bucketSeconds)
}

// Status returns the session's lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastActivity returns when the session last processed a frame.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// EndedAt returns when the session ended, or the zero time while active.
func (s *Session) EndedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endedAt
}

func (s *Session) end(status Status, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusActive {
		s.status = status
		s.endedAt = at
	}
}
