// Package web exposes the HTTP and websocket surface of the focus
// monitoring service: session lifecycle, signal ingestion, stats, report
// views, and a live frame feed for dashboards.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/focusguard/go-focusguard/internal/log"
	"github.com/focusguard/go-focusguard/pkg/hub"
	"github.com/focusguard/go-focusguard/pkg/session"
)

// Server is the focus monitoring API server.
type Server struct {
	app  *fiber.App
	addr string

	sessions *session.Manager

	// Live feed hub: every processed frame is broadcast to dashboard
	// clients as a LiveFrame.
	live *hub.Hub
}

// NewServer creates the API server around a session manager.
func NewServer(addr string, sessions *session.Manager) *Server {
	s := &Server{
		addr:     addr,
		sessions: sessions,
		live:     hub.New("live"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "focusd",
		DisableStartupMessage: true,
	})

	// CORS for dashboard development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Post("/sessions", s.handleCreateSession)
	api.Get("/sessions", s.handleListSessions)
	api.Get("/sessions/:id", s.handleGetSession)
	api.Post("/sessions/:id/signals", s.handleSignal)
	api.Get("/sessions/:id/stats", s.handleStats)
	api.Get("/sessions/:id/events", s.handleEvents)
	api.Get("/sessions/:id/report", s.handleReport)
	api.Post("/sessions/:id/end", s.handleEndSession)
	api.Delete("/sessions/:id", s.handleDeleteSession)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/live", websocket.New(s.handleLiveWS))

	s.app = app
	return s
}

// Start runs the hub and listens; it blocks until shutdown.
func (s *Server) Start() error {
	go s.live.Run()
	log.Info("api server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("api server stopped", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// handleLiveWS attaches a dashboard client to the live feed.
func (s *Server) handleLiveWS(c *websocket.Conn) {
	client := hub.NewClient(s.live, c)
	client.Run()
}
