package scrollock

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/scrollock-dev/scrollock/pkg/server"
)

// Config is the main application configuration.
// This is the user-friendly entry point for configuring a scrollock app.
type Config struct {
	// Address is the listen address (e.g., ":8080").
	// Default: ":8080".
	Address string

	// Session configures session behavior.
	Session SessionConfig

	// MaxSessions is the maximum number of concurrent sessions.
	// 0 means no limit.
	MaxSessions int

	// CheckOrigin validates the WebSocket request origin.
	// Default: same-origin only. Set DevMode to allow all origins.
	CheckOrigin func(r *http.Request) bool

	// DevMode disables origin checking.
	// SECURITY: never use in production.
	DevMode bool

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// OnSessionStart is called when a new WebSocket session is established,
	// before its loops start. Use it to seed overflow state or attach
	// observers.
	//
	// Example:
	//
	//	OnSessionStart: func(s *scrollock.Session) {
	//	    s.Document().Overflow.Subscribe(func(t scrollock.Token) {
	//	        log.Println("overflow is now", t)
	//	    })
	//	}
	OnSessionStart func(s *Session)
}

// SessionConfig configures session behavior.
type SessionConfig struct {
	// ResumeWindow is how long a disconnected session remains resumable.
	// Within this window, a reconnecting client restores its full overflow
	// state and observers. After the window, the session expires.
	// Default: 5 minutes.
	ResumeWindow time.Duration

	// IdleTimeout is the time after which an inactive session is closed.
	// Default: 5 minutes.
	IdleTimeout time.Duration

	// HeartbeatInterval is the time between server pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration
}

// Session is the per-connection session type.
type Session = server.Session

// buildServerConfig converts the public Config to the internal server config.
func buildServerConfig(cfg Config) *server.ServerConfig {
	sc := server.DefaultServerConfig()

	if cfg.Address != "" {
		sc.Address = cfg.Address
	}
	sc.MaxSessions = cfg.MaxSessions
	if cfg.Session.ResumeWindow > 0 {
		sc.ResumeWindow = cfg.Session.ResumeWindow
	}
	if cfg.Session.IdleTimeout > 0 {
		sc.SessionConfig.IdleTimeout = cfg.Session.IdleTimeout
	}
	if cfg.Session.HeartbeatInterval > 0 {
		sc.SessionConfig.HeartbeatInterval = cfg.Session.HeartbeatInterval
	}

	if cfg.CheckOrigin != nil {
		sc.CheckOrigin = cfg.CheckOrigin
	} else if cfg.DevMode {
		sc.CheckOrigin = func(r *http.Request) bool { return true }
	}

	if cfg.OnSessionStart != nil {
		sc.OnSessionStart = cfg.OnSessionStart
	}

	return sc
}
