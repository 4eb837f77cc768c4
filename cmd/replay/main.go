// replay - feed a recorded JSONL signal stream into a running focusd
// server and print the resulting scores and alerts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/focusguard/go-focusguard/internal/log"
	"github.com/focusguard/go-focusguard/pkg/replay"
)

func main() {
	server := flag.String("server", "http://localhost:8090", "focusd base URL")
	file := flag.String("file", "", "JSONL signal stream to replay (required)")
	pace := flag.Bool("pace", false, "pace frames by recorded timestamps instead of sending at full speed")
	tail := flag.Bool("tail", false, "tail the live feed and print frames while replaying")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*logLevel)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: replay -file session.jsonl [-server http://localhost:8090] [-pace] [-tail]")
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Error("open stream", "error", err)
		os.Exit(1)
	}
	records, err := replay.ReadAll(f)
	f.Close()
	if err != nil {
		log.Error("read stream", "error", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		log.Error("stream is empty", "file", *file)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	feeder := replay.NewFeeder(*server)
	sessionID, err := feeder.CreateSession(ctx, map[string]string{"source": *file})
	if err != nil {
		log.Error("create session", "error", err)
		os.Exit(1)
	}
	log.Info("session created", "session_id", sessionID, "frames", len(records))

	if *tail {
		wsURL := strings.Replace(*server, "http", "ws", 1) + "/ws/live"
		go func() {
			err := replay.TailLive(ctx, wsURL, func(frame replay.LiveFrame) {
				if frame.SessionID != sessionID {
					return
				}
				fmt.Printf("t=%8.3f score=%6.2f", frame.Timestamp, frame.FocusScore)
				for _, ev := range frame.Events {
					fmt.Printf("  [%s] %s", ev.Severity, ev.Message)
				}
				fmt.Println()
			})
			if err != nil && ctx.Err() == nil {
				log.Warn("live feed closed", "error", err)
			}
		}()
	}

	if err := feeder.Run(ctx, sessionID, records, *pace); err != nil {
		log.Error("replay failed", "error", err)
		os.Exit(1)
	}
	if err := feeder.End(ctx, sessionID); err != nil {
		log.Error("end session", "error", err)
		os.Exit(1)
	}
	log.Info("replay complete", "session_id", sessionID)
}
