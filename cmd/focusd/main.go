// focusd - focus monitoring API server.
// Ingests per-frame perceptual signals over HTTP and serves live scores,
// deduplicated alerts, and session reports.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/focusguard/go-focusguard/internal/config"
	"github.com/focusguard/go-focusguard/internal/log"
	"github.com/focusguard/go-focusguard/pkg/focus"
	"github.com/focusguard/go-focusguard/pkg/session"
	"github.com/focusguard/go-focusguard/pkg/web"
)

func main() {
	addr := flag.String("addr", config.ListenAddr(), "listen address")
	logLevel := flag.String("log-level", config.LogLevel(), "log level: debug, info, warn, error")
	maxSessions := flag.Int("max-sessions", config.MaxSessions(), "maximum concurrent sessions")
	alpha := flag.Float64("alpha", focus.DefaultAlpha, "score smoothing factor (0,1]")
	cooldown := flag.Float64("cooldown", focus.DefaultCooldownWindow, "alert cooldown window in seconds")
	recovery := flag.Float64("recovery", focus.DefaultRecoverySeconds, "seconds for the score to recover from 0 to 100")
	flag.Parse()

	log.Init(*logLevel)

	cfg := focus.DefaultConfig()
	cfg.Alpha = *alpha
	cfg.CooldownWindow = *cooldown
	cfg.RecoverySeconds = *recovery

	mgr, err := session.NewManager(cfg, *maxSessions, config.SessionTimeout())
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	srv := web.NewServer(*addr, mgr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Sweep idle sessions in the background.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := mgr.ExpireIdle(); n > 0 {
					log.Info("expired idle sessions", "count", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	srv.StartAsync()
	<-ctx.Done()

	log.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		log.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}
