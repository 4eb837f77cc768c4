package replay

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/focusguard/go-focusguard/pkg/focus"
)

// LiveFrame mirrors the server's live-feed payload.
type LiveFrame struct {
	SessionID  string        `json:"session_id"`
	Timestamp  float64       `json:"timestamp"`
	FocusScore float64       `json:"focus_score"`
	Events     []focus.Event `json:"events"`
}

// TailLive connects to the server's live feed (ws://host/ws/live) and
// invokes fn for every broadcast frame until the context is cancelled or
// the connection drops.
func TailLive(ctx context.Context, url string, fn func(LiveFrame)) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var frame LiveFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		fn(frame)
	}
}
