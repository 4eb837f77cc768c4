package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusguard/go-focusguard/pkg/focus"
	"github.com/focusguard/go-focusguard/pkg/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mgr, err := session.NewManager(focus.DefaultConfig(), 10, time.Hour)
	require.NoError(t, err)
	return NewServer(":0", mgr)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	resp.Body.Close()
	return v
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	resp := doJSON(t, s, http.MethodPost, "/api/sessions",
		CreateSessionRequest{Metadata: map[string]string{"exam_id": "midterm"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[SessionResponse](t, resp)
	require.NotEmpty(t, created.SessionID)
	return created.SessionID
}

func cleanSignal(ts float64) map[string]any {
	return map[string]any{
		"timestamp":      ts,
		"face_detected":  true,
		"face_count":     1,
		"gaze_direction": "forward",
	}
}

func deviceSignal(ts float64) map[string]any {
	sig := cleanSignal(ts)
	sig["device_detected"] = true
	sig["device_type"] = "cell phone"
	sig["device_confidence"] = 0.9
	return sig
}

func TestAPI_SessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	resp := doJSON(t, s, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[SessionDetailResponse](t, resp)
	assert.Equal(t, id, detail.SessionID)
	assert.Equal(t, "active", detail.Status)
	assert.Equal(t, "midterm", detail.Metadata["exam_id"])

	resp = doJSON(t, s, http.MethodPost, "/api/sessions/"+id+"/end", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Ended sessions reject frames.
	resp = doJSON(t, s, http.MethodPost, "/api/sessions/"+id+"/signals", cleanSignal(0))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, s, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, s, http.MethodGet, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_SignalIngestionAndStats(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	base := "/api/sessions/" + id
	for i := 0; i < 30; i++ {
		resp := doJSON(t, s, http.MethodPost, base+"/signals", cleanSignal(float64(i)/30))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		res := decode[SignalResponse](t, resp)
		assert.Equal(t, float64(100), res.FocusScore)
		assert.Empty(t, res.Events)
	}

	resp := doJSON(t, s, http.MethodGet, base+"/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The stats shape is a stable wire contract; check exact field names.
	raw := decode[map[string]json.RawMessage](t, resp)
	for _, field := range []string{
		"frames_processed", "average_focus_score", "current_focus_score",
		"duration_seconds", "alerts",
	} {
		assert.Contains(t, raw, field)
	}

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(mustMarshal(t, raw), &stats))
	assert.Equal(t, 30, stats.FramesProcessed)
	assert.Equal(t, float64(100), stats.AverageFocusScore)
	assert.Equal(t, float64(100), stats.CurrentFocusScore)
	for _, cat := range focus.Categories() {
		assert.Equal(t, 0, stats.Alerts[cat], "category %s", cat)
	}
}

func TestAPI_DeviceAlertDeduplicated(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)
	base := "/api/sessions/" + id

	// 2 seconds of a visible phone: one device alert, not sixty.
	totalEvents := 0
	for i := 0; i < 60; i++ {
		resp := doJSON(t, s, http.MethodPost, base+"/signals", deviceSignal(float64(i)/30))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		res := decode[SignalResponse](t, resp)
		totalEvents += len(res.Events)
	}
	assert.Equal(t, 1, totalEvents)

	resp := doJSON(t, s, http.MethodGet, base+"/stats", nil)
	stats := decode[StatsResponse](t, resp)
	assert.Equal(t, 1, stats.Alerts[focus.CategoryDevice])
	assert.Less(t, stats.CurrentFocusScore, float64(100))

	resp = doJSON(t, s, http.MethodGet, base+"/events", nil)
	var events struct {
		Events []focus.Event `json:"events"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	resp.Body.Close()
	require.Len(t, events.Events, 1)
	assert.Equal(t, focus.CategoryDevice, events.Events[0].Category)
	assert.Equal(t, focus.SeverityAlert, events.Events[0].Severity)
}

func TestAPI_RejectedFrames(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)
	base := "/api/sessions/" + id

	resp := doJSON(t, s, http.MethodPost, base+"/signals", cleanSignal(1.0))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Out-of-order timestamp.
	resp = doJSON(t, s, http.MethodPost, base+"/signals", cleanSignal(0.5))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[map[string]string](t, resp)
	assert.Equal(t, "out_of_order", errBody["code"])

	// Out-of-range confidence.
	bad := cleanSignal(2.0)
	bad["device_confidence"] = 1.5
	resp = doJSON(t, s, http.MethodPost, base+"/signals", bad)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody = decode[map[string]string](t, resp)
	assert.Equal(t, "invalid_signal", errBody["code"])

	// Rejected frames do not advance the session.
	resp = doJSON(t, s, http.MethodGet, base+"/stats", nil)
	stats := decode[StatsResponse](t, resp)
	assert.Equal(t, 1, stats.FramesProcessed)

	// Unknown session.
	resp = doJSON(t, s, http.MethodPost, "/api/sessions/nope/signals", cleanSignal(0))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Report(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)
	base := "/api/sessions/" + id

	// Two device firings 10 s apart fall into the same 60 s bucket.
	for _, ts := range []float64{0, 10} {
		resp := doJSON(t, s, http.MethodPost, base+"/signals", deviceSignal(ts))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, s, http.MethodGet, base+"/report", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[ReportResponse](t, resp)

	assert.Equal(t, id, report.SessionID)
	assert.Equal(t, 2, report.Stats.FramesProcessed)
	require.Len(t, report.Events, 1)
	assert.Equal(t, focus.CategoryDevice, report.Events[0].Category)
	assert.Equal(t, 2, report.Events[0].Count)
	assert.NotEmpty(t, report.Timeline)
}

func TestAPI_ListSessions(t *testing.T) {
	s := newTestServer(t)
	a := createSession(t, s)
	b := createSession(t, s)

	resp := doJSON(t, s, http.MethodGet, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Sessions []string             `json:"sessions"`
		Stats    session.ManagerStats `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()

	assert.ElementsMatch(t, []string{a, b}, list.Sessions)
	assert.Equal(t, 2, list.Stats.Active)
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
