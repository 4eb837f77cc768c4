package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/focusguard/go-focusguard/internal/httpc"
	"github.com/focusguard/go-focusguard/internal/log"
	"github.com/focusguard/go-focusguard/pkg/signal"
)

// Feeder posts signal records to a running focus server over HTTP.
type Feeder struct {
	baseURL string
	client  *http.Client
}

// NewFeeder creates a feeder for the server at baseURL, e.g.
// "http://localhost:8090".
func NewFeeder(baseURL string) *Feeder {
	return &Feeder{baseURL: baseURL, client: httpc.Client}
}

// CreateSession starts a new session on the server and returns its ID.
func (f *Feeder) CreateSession(ctx context.Context, metadata map[string]string) (string, error) {
	body, err := json.Marshal(map[string]any{"metadata": metadata})
	if err != nil {
		return "", err
	}

	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := f.postJSON(ctx, "/api/sessions", body, http.StatusCreated, &resp); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return resp.SessionID, nil
}

// Send posts one record and returns the server-reported focus score.
func (f *Feeder) Send(ctx context.Context, sessionID string, rec signal.Record) (float64, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}

	var resp struct {
		FocusScore float64 `json:"focus_score"`
	}
	path := "/api/sessions/" + sessionID + "/signals"
	if err := f.postJSON(ctx, path, body, http.StatusOK, &resp); err != nil {
		return 0, err
	}
	return resp.FocusScore, nil
}

// Run replays all records into the session. With pace set, it sleeps
// between frames to match the recorded timestamp deltas; otherwise it
// sends as fast as the server accepts.
func (f *Feeder) Run(ctx context.Context, sessionID string, records []signal.Record, pace bool) error {
	var prev float64
	for i, rec := range records {
		if pace && i > 0 {
			delta := rec.Timestamp - prev
			if delta > 0 {
				select {
				case <-time.After(time.Duration(delta * float64(time.Second))):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		prev = rec.Timestamp

		score, err := f.Send(ctx, sessionID, rec)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		log.Debug("frame replayed", "frame", i, "score", score)
	}
	return nil
}

// End marks the session as ended on the server.
func (f *Feeder) End(ctx context.Context, sessionID string) error {
	return f.postJSON(ctx, "/api/sessions/"+sessionID+"/end", nil, http.StatusOK, nil)
}

func (f *Feeder) postJSON(ctx context.Context, path string, body []byte, wantStatus int, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
