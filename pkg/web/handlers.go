package web

import (
	"errors"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/focusguard/go-focusguard/pkg/focus"
	"github.com/focusguard/go-focusguard/pkg/session"
	"github.com/focusguard/go-focusguard/pkg/signal"
)

// CreateSessionRequest is the body for POST /api/sessions.
type CreateSessionRequest struct {
	Metadata map[string]string `json:"metadata"`
}

// SessionResponse is returned on session creation.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionDetailResponse is the full session view.
type SessionDetailResponse struct {
	SessionID       string            `json:"session_id"`
	Status          string            `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	LastActivity    time.Time         `json:"last_activity"`
	EndedAt         *time.Time        `json:"ended_at,omitempty"`
	FramesProcessed int               `json:"frames_processed"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// StatsResponse is the stable stats contract serialized verbatim by the
// HTTP layer; field names and numeric semantics must be preserved.
type StatsResponse struct {
	FramesProcessed   int                    `json:"frames_processed"`
	AverageFocusScore float64                `json:"average_focus_score"`
	CurrentFocusScore float64                `json:"current_focus_score"`
	DurationSeconds   float64                `json:"duration_seconds"`
	Alerts            map[focus.Category]int `json:"alerts"`
}

// SignalResponse is returned for each ingested frame.
type SignalResponse struct {
	SessionID  string        `json:"session_id"`
	Timestamp  float64       `json:"timestamp"`
	FocusScore float64       `json:"focus_score"`
	Events     []focus.Event `json:"events"`
	Stats      StatsResponse `json:"stats"`
}

// ReportResponse is the compact view consumed by the report collaborator.
type ReportResponse struct {
	SessionID string                `json:"session_id"`
	Status    string                `json:"status"`
	Stats     StatsResponse         `json:"stats"`
	Events    []focus.EventGroup    `json:"events"`
	Timeline  []focus.TimelinePoint `json:"timeline"`
}

// LiveFrame is broadcast on the websocket feed for every processed frame.
type LiveFrame struct {
	SessionID  string        `json:"session_id"`
	Timestamp  float64       `json:"timestamp"`
	FocusScore float64       `json:"focus_score"`
	Events     []focus.Event `json:"events"`
}

func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return errorJSON(c, fiber.StatusBadRequest, "bad_request", "malformed request body")
	}

	sess, err := s.sessions.Create(req.Metadata)
	if errors.Is(err, session.ErrLimit) {
		return errorJSON(c, fiber.StatusServiceUnavailable, "session_limit", err.Error())
	}
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal", err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(SessionResponse{
		SessionID: sess.ID,
		Status:    string(sess.Status()),
		CreatedAt: sess.CreatedAt,
	})
}

func (s *Server) handleListSessions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"sessions": s.sessions.ActiveIDs(),
		"stats":    s.sessions.Stats(),
	})
}

func (s *Server) handleGetSession(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "not_found", err.Error())
	}

	resp := SessionDetailResponse{
		SessionID:       sess.ID,
		Status:          string(sess.Status()),
		CreatedAt:       sess.CreatedAt,
		LastActivity:    sess.LastActivity(),
		FramesProcessed: sess.Snapshot().FrameCount,
		Metadata:        sess.Metadata,
	}
	if ended := sess.EndedAt(); !ended.IsZero() {
		resp.EndedAt = &ended
	}
	return c.JSON(resp)
}

func (s *Server) handleSignal(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "not_found", err.Error())
	}

	var rec signal.Record
	if err := c.BodyParser(&rec); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "bad_request", "malformed signal record")
	}

	res, err := sess.Process(rec)
	switch {
	case errors.Is(err, session.ErrNotActive):
		return errorJSON(c, fiber.StatusConflict, "not_active", err.Error())
	case errors.Is(err, focus.ErrOutOfOrderInput):
		return errorJSON(c, fiber.StatusBadRequest, "out_of_order", err.Error())
	case errors.Is(err, signal.ErrInvalid):
		return errorJSON(c, fiber.StatusBadRequest, "invalid_signal", err.Error())
	case err != nil:
		return errorJSON(c, fiber.StatusInternalServerError, "internal", err.Error())
	}

	if res.Events == nil {
		res.Events = []focus.Event{}
	}
	score := round2(res.Score)
	s.live.BroadcastJSON(LiveFrame{
		SessionID:  sess.ID,
		Timestamp:  rec.Timestamp,
		FocusScore: score,
		Events:     res.Events,
	})

	return c.JSON(SignalResponse{
		SessionID:  sess.ID,
		Timestamp:  rec.Timestamp,
		FocusScore: score,
		Events:     res.Events,
		Stats:      statsFrom(res.Snapshot),
	})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "not_found", err.Error())
	}
	return c.JSON(statsFrom(sess.Snapshot()))
}

func (s *Server) handleEvents(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "not_found", err.Error())
	}
	events := sess.Events()
	if events == nil {
		events = []focus.Event{}
	}
	return c.JSON(fiber.Map{"session_id": sess.ID, "events": events})
}

func (s *Server) handleReport(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "not_found", err.Error())
	}

	snap := sess.Snapshot()
	groups := sess.GroupedEvents(s.sessions.Config().ReportBucketSeconds)
	if groups == nil {
		groups = []focus.EventGroup{}
	}
	return c.JSON(ReportResponse{
		SessionID: sess.ID,
		Status:    string(sess.Status()),
		Stats:     statsFrom(snap),
		Events:    groups,
		Timeline:  snap.Timeline,
	})
}

func (s *Server) handleEndSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.sessions.End(id); err != nil {
		return errorJSON(c, fiber.StatusNotFound, "not_found", err.Error())
	}
	return c.JSON(fiber.Map{"session_id": id, "status": string(session.StatusEnded)})
}

func (s *Server) handleDeleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.sessions.Delete(id); err != nil {
		return errorJSON(c, fiber.StatusNotFound, "not_found", err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// statsFrom maps an engine aggregate onto the wire contract. Scores are
// rounded here, at the presentation boundary, never inside the engine.
// The alerts map always carries all categories so consumers see explicit
// zeroes.
func statsFrom(snap focus.Aggregate) StatsResponse {
	alerts := make(map[focus.Category]int, len(focus.Categories()))
	for _, cat := range focus.Categories() {
		alerts[cat] = snap.CategoryCounts[cat]
	}
	return StatsResponse{
		FramesProcessed:   snap.FrameCount,
		AverageFocusScore: round2(snap.AverageScore),
		CurrentFocusScore: round2(snap.CurrentScore),
		DurationSeconds:   round2(snap.DurationSeconds),
		Alerts:            alerts,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func errorJSON(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(fiber.Map{"code": code, "error": msg})
}
