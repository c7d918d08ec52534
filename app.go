package scrollock

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/scrollock-dev/scrollock/pkg/server"
)

// App is the main scrollock application entry point.
// It wraps the server into a single http.Handler.
//
// Create an App with scrollock.New():
//
//	app := scrollock.New(scrollock.Config{
//	    Session: scrollock.SessionConfig{ResumeWindow: 30 * time.Second},
//	    DevMode: os.Getenv("ENV") != "production",
//	})
//
//	http.ListenAndServe(":8080", app)
type App struct {
	server *server.Server

	config Config
	logger *slog.Logger
}

// New creates a new scrollock application with the given configuration.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	srv := server.New(buildServerConfig(cfg))
	srv.SetLogger(logger.With("component", "server"))

	return &App{
		server: srv,
		config: cfg,
		logger: logger,
	}
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.server.ServeHTTP(w, r)
}

// Handler returns the App as an http.Handler.
// This is useful for explicit type conversion or middleware wrapping.
func (a *App) Handler() http.Handler {
	return a
}

// Use adds HTTP middleware to the server. Must be called before the first
// request is served.
func (a *App) Use(mw func(http.Handler) http.Handler) {
	a.server.Use(mw)
}

// Server returns the underlying server for advanced configuration.
// Most apps won't need this.
func (a *App) Server() *server.Server {
	return a.server
}

// Sessions returns the session manager.
func (a *App) Sessions() *server.SessionManager {
	return a.server.Sessions()
}

// Config returns the app configuration.
func (a *App) Config() Config {
	return a.config
}

// Run starts the server and blocks until shutdown.
//
//	app := scrollock.New(cfg)
//	app.Run(":8080")
func (a *App) Run(addr string) error {
	if addr != "" {
		a.server.Config().Address = addr
	}
	return a.server.Run()
}

// Shutdown gracefully shuts down the server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
