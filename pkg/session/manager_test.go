package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusguard/go-focusguard/pkg/focus"
	"github.com/focusguard/go-focusguard/pkg/signal"
)

func newTestManager(t *testing.T, maxSessions int) *Manager {
	t.Helper()
	m, err := NewManager(focus.DefaultConfig(), maxSessions, time.Hour)
	require.NoError(t, err)
	return m
}

func cleanFrame(ts float64) signal.Record {
	return signal.Record{
		Timestamp:     ts,
		FaceDetected:  true,
		FaceCount:     1,
		GazeDirection: signal.GazeForward,
	}
}

func TestManager_CreateAndGet(t *testing.T) {
	m := newTestManager(t, 10)

	s, err := m.Create(map[string]string{"exam_id": "final_2026"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, StatusActive, s.Status())
	assert.Equal(t, "final_2026", s.Metadata["exam_id"])

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_InvalidConfigRejected(t *testing.T) {
	cfg := focus.DefaultConfig()
	cfg.Alpha = -1

	_, err := NewManager(cfg, 10, time.Hour)
	require.Error(t, err)
	var cerr *focus.ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestSession_ProcessUpdatesStats(t *testing.T) {
	m := newTestManager(t, 10)
	s, err := m.Create(nil)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		res, err := s.Process(cleanFrame(float64(i) / 30))
		require.NoError(t, err)
		assert.InDelta(t, 100, res.Score, 1e-9)
	}

	snap := s.Snapshot()
	assert.Equal(t, 10, snap.FrameCount)
	assert.InDelta(t, 100, snap.AverageScore, 1e-9)
	assert.Empty(t, s.Events())
}

func TestSession_EndedSessionRejectsFrames(t *testing.T) {
	m := newTestManager(t, 10)
	s, err := m.Create(nil)
	require.NoError(t, err)

	_, err = s.Process(cleanFrame(0))
	require.NoError(t, err)

	require.NoError(t, m.End(s.ID))
	assert.Equal(t, StatusEnded, s.Status())
	assert.False(t, s.EndedAt().IsZero())

	_, err = s.Process(cleanFrame(1))
	assert.ErrorIs(t, err, ErrNotActive)

	// Stats stay readable after ending.
	assert.Equal(t, 1, s.Snapshot().FrameCount)
}

func TestManager_SessionLimit(t *testing.T) {
	m := newTestManager(t, 1)

	_, err := m.Create(nil)
	require.NoError(t, err)

	_, err = m.Create(nil)
	assert.ErrorIs(t, err, ErrLimit)
}

func TestManager_LimitFreedByIdleExpiry(t *testing.T) {
	m := newTestManager(t, 1)

	s, err := m.Create(nil)
	require.NoError(t, err)

	// Age the session past the idle timeout.
	s.mu.Lock()
	s.lastActivity = time.Now().Add(-2 * time.Hour)
	s.mu.Unlock()

	s2, err := m.Create(nil)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, s2.ID)
	assert.Equal(t, StatusExpired, s.Status())

	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_StatsAndActiveIDs(t *testing.T) {
	m := newTestManager(t, 10)

	a, err := m.Create(nil)
	require.NoError(t, err)
	b, err := m.Create(nil)
	require.NoError(t, err)
	require.NoError(t, m.End(b.ID))

	stats := m.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Ended)
	assert.Equal(t, 10, stats.Max)

	assert.Equal(t, []string{a.ID}, m.ActiveIDs())

	require.NoError(t, m.Delete(b.ID))
	assert.Equal(t, 1, m.Stats().Total)
	assert.ErrorIs(t, m.Delete(b.ID), ErrNotFound)
}

func TestSession_GroupedEvents(t *testing.T) {
	m := newTestManager(t, 10)
	s, err := m.Create(nil)
	require.NoError(t, err)

	device := cleanFrame(0)
	device.DeviceDetected = true
	device.DeviceType = "cell phone"
	device.DeviceConfidence = 0.9

	// Two firings 4 s apart land in the same 60 s report bucket.
	_, err = s.Process(device)
	require.NoError(t, err)
	device.Timestamp = 4
	_, err = s.Process(device)
	require.NoError(t, err)

	assert.Len(t, s.Events(), 2)
	groups := s.GroupedEvents(60)
	require.Len(t, groups, 1)
	assert.Equal(t, focus.CategoryDevice, groups[0].Category)
	assert.Equal(t, 2, groups[0].Count)
}
