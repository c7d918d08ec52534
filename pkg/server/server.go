package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP/WebSocket server for scrollock.
type Server struct {
	// Session management
	sessions *SessionManager

	// Configuration
	config *ServerConfig

	// WebSocket upgrader
	upgrader websocket.Upgrader

	// Middleware
	middleware []Middleware

	// HTTP
	router     chi.Router
	routerOnce sync.Once
	httpServer *http.Server

	// Logger
	logger *slog.Logger
}

// Middleware is a function that wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// New creates a new Server with the given configuration.
func New(config *ServerConfig) *Server {
	if config == nil {
		config = DefaultServerConfig()
	} else {
		// Fill in defaults for any unset fields.
		defaults := DefaultServerConfig()
		if config.Address == "" {
			config.Address = defaults.Address
		}
		if config.ReadBufferSize == 0 {
			config.ReadBufferSize = defaults.ReadBufferSize
		}
		if config.WriteBufferSize == 0 {
			config.WriteBufferSize = defaults.WriteBufferSize
		}
		if config.CheckOrigin == nil {
			config.CheckOrigin = defaults.CheckOrigin
		}
		if config.SessionConfig == nil {
			config.SessionConfig = defaults.SessionConfig
		}
		if config.ResumeWindow == 0 {
			config.ResumeWindow = defaults.ResumeWindow
		}
		if config.CleanupInterval == 0 {
			config.CleanupInterval = defaults.CleanupInterval
		}
		if config.ShutdownTimeout == 0 {
			config.ShutdownTimeout = defaults.ShutdownTimeout
		}
		if config.ReadHeaderTimeout == 0 {
			config.ReadHeaderTimeout = defaults.ReadHeaderTimeout
		}
	}

	logger := slog.Default().With("component", "server")

	s := &Server{
		sessions: NewSessionManager(config.SessionConfig, config.MaxSessions, config.ResumeWindow, config.CleanupInterval, logger),
		config:   config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: logger,
	}

	return s
}

// Use adds middleware to the server. Must be called before the first
// request is served.
func (s *Server) Use(mw Middleware) {
	s.middleware = append(s.middleware, mw)
}

// Handler returns the server's http.Handler with all middleware applied,
// for mounting in external routers. The route table is built on first use;
// call Use before this.
func (s *Server) Handler() http.Handler {
	s.routerOnce.Do(func() {
		s.router = s.buildRouter()
	})
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	for _, mw := range s.middleware {
		r.Use(mw)
	}

	r.Get("/ws", s.HandleWebSocket)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", s.handleIndex)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

// HandleWebSocket handles WebSocket upgrade and the hello handshake.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	conn.SetReadLimit(s.config.SessionConfig.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(s.config.SessionConfig.HandshakeTimeout))

	var hello clientMessage
	if err := conn.ReadJSON(&hello); err != nil {
		s.logger.Error("handshake read failed", "error", err)
		conn.Close()
		return
	}
	if hello.Type != msgHello {
		s.logger.Error("handshake message type mismatch", "got", hello.Type)
		conn.Close()
		return
	}

	// Resume an existing session when the client presents a known ID
	// inside the resume window.
	if hello.Session != "" {
		if session, err := s.sessions.Resume(hello.Session, conn); err == nil {
			s.sendServerHello(conn, session, true)

			// The mirror is authoritative across the gap: push the
			// managed properties so the client converges.
			session.SyncDocument()
			session.Start()
			return
		}
		s.logger.Info("session resume rejected", "session_id", hello.Session)
	}

	session, err := s.sessions.Create(conn, hello.Styles)
	if err != nil {
		s.logger.Warn("session create rejected", "error", err)
		conn.Close()
		return
	}

	if s.config.OnSessionStart != nil {
		s.config.OnSessionStart(session)
	}

	s.sendServerHello(conn, session, false)

	// Touch the document state so the registry binds and reads back the
	// styles the client reported in its hello.
	session.Document()

	session.Start()
}

// sendServerHello acknowledges the handshake.
func (s *Server) sendServerHello(conn *websocket.Conn, session *Session, resumed bool) {
	conn.SetWriteDeadline(time.Now().Add(s.config.SessionConfig.WriteTimeout))
	if err := conn.WriteJSON(serverHello{
		Type:    msgHello,
		Session: session.ID,
		Resumed: resumed,
	}); err != nil {
		s.logger.Error("server hello write failed", "error", err)
	}
	conn.SetReadDeadline(time.Now().Add(s.config.SessionConfig.ReadTimeout))
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-shutdown:
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.sessions.Shutdown()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Config returns the server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// SetLogger sets the server logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}
