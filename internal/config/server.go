// Package config provides environment configuration helpers for the
// focusd commands.
package config

import (
	"os"
	"strconv"
	"time"
)

// Default server configuration.
const (
	DefaultListenAddr     = ":8090"
	DefaultLogLevel       = "info"
	DefaultMaxSessions    = 100
	DefaultSessionTimeout = 4 * time.Hour
)

// ListenAddr returns the listen address from FOCUSD_ADDR.
// Falls back to the default if not set.
func ListenAddr() string {
	if addr := os.Getenv("FOCUSD_ADDR"); addr != "" {
		return addr
	}
	return DefaultListenAddr
}

// LogLevel returns the log level from FOCUSD_LOG_LEVEL or default.
func LogLevel() string {
	if level := os.Getenv("FOCUSD_LOG_LEVEL"); level != "" {
		return level
	}
	return DefaultLogLevel
}

// MaxSessions returns the session cap from FOCUSD_MAX_SESSIONS or default.
func MaxSessions() int {
	if v := os.Getenv("FOCUSD_MAX_SESSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultMaxSessions
}

// SessionTimeout returns the idle timeout from FOCUSD_SESSION_TIMEOUT
// (hours) or default.
func SessionTimeout() time.Duration {
	if v := os.Getenv("FOCUSD_SESSION_TIMEOUT"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			return time.Duration(h) * time.Hour
		}
	}
	return DefaultSessionTimeout
}
