package server

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scrollock-dev/scrollock/pkg/middleware"
)

// SessionManager manages all active sessions.
// It handles session creation, lookup, resume, and expiry.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex

	config       *SessionConfig
	maxSessions  int
	resumeWindow time.Duration

	// Cleanup (protected by cleanupMu)
	cleanupInterval time.Duration
	cleanupTicker   *time.Ticker
	cleanupMu       sync.Mutex
	done            chan struct{}
	cleanupDone     chan struct{}

	// Metrics
	totalCreated atomic.Uint64
	totalClosed  atomic.Uint64
	peakSessions int

	// Callbacks
	onSessionCreate func(*Session)
	onSessionClose  func(*Session)

	logger *slog.Logger
}

// NewSessionManager creates a SessionManager. maxSessions of 0 means no
// limit; a zero resumeWindow gets the 5 minute default.
func NewSessionManager(config *SessionConfig, maxSessions int, resumeWindow, cleanupInterval time.Duration, logger *slog.Logger) *SessionManager {
	if config == nil {
		config = DefaultSessionConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if resumeWindow == 0 {
		resumeWindow = 5 * time.Minute
	}
	if cleanupInterval == 0 {
		cleanupInterval = 30 * time.Second
	}

	sm := &SessionManager{
		sessions:        make(map[string]*Session),
		config:          config,
		maxSessions:     maxSessions,
		resumeWindow:    resumeWindow,
		cleanupInterval: cleanupInterval,
		done:            make(chan struct{}),
		cleanupDone:     make(chan struct{}),
		logger:          logger.With("component", "session_manager"),
	}

	go sm.cleanupLoop()

	return sm
}

// Create creates a new session for the given WebSocket connection. styles
// seeds the document mirror with the client's reported inline declarations.
func (sm *SessionManager) Create(conn *websocket.Conn, styles map[string]string) (*Session, error) {
	sm.mu.Lock()

	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		sm.mu.Unlock()
		return nil, ErrMaxSessionsReached
	}

	session := newSession(conn, styles, sm.config, sm.logger)
	session.setOnDetach(sm.onSessionDetach)

	sm.sessions[session.ID] = session
	sm.totalCreated.Add(1)
	if len(sm.sessions) > sm.peakSessions {
		sm.peakSessions = len(sm.sessions)
	}

	sm.mu.Unlock()

	middleware.RecordSessionCreate()
	if sm.onSessionCreate != nil {
		sm.onSessionCreate(session)
	}

	sm.logger.Info("session created",
		"session_id", session.ID,
		"active_sessions", sm.Count())

	return session, nil
}

// Resume attaches a fresh connection to an existing session. Returns
// ErrSessionNotFound if the ID is unknown or the resume window expired.
func (sm *SessionManager) Resume(id string, conn *websocket.Conn) (*Session, error) {
	sm.mu.RLock()
	session := sm.sessions[id]
	sm.mu.RUnlock()

	if session == nil || session.IsClosed() {
		return nil, ErrSessionNotFound
	}

	if session.IsDetached() && time.Since(session.DetachedAt()) > sm.resumeWindow {
		sm.Close(id)
		return nil, ErrSessionNotFound
	}

	if err := session.Resume(conn); err != nil {
		return nil, err
	}

	middleware.RecordSessionReattach()

	sm.logger.Info("session resumed",
		"session_id", id,
		"active_sessions", sm.Count())

	return session, nil
}

// Get retrieves a session by ID.
func (sm *SessionManager) Get(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// Close closes a session by ID and removes it from the manager.
func (sm *SessionManager) Close(id string) {
	sm.mu.Lock()
	session, exists := sm.sessions[id]
	if exists {
		delete(sm.sessions, id)
	}
	sm.mu.Unlock()

	if session != nil {
		wasDetached := session.IsDetached()
		session.Close()
		sm.totalClosed.Add(1)
		if !wasDetached {
			middleware.RecordSessionDestroy()
		} else {
			// Detach already decremented the active gauge.
			middleware.RecordSessionExpire()
		}
		if sm.onSessionClose != nil {
			sm.onSessionClose(session)
		}
		sm.logger.Info("session closed",
			"session_id", id,
			"active_sessions", sm.Count())
	}
}

// Count returns the number of sessions, attached and detached.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ResumeWindow returns how long detached sessions remain resumable.
func (sm *SessionManager) ResumeWindow() time.Duration {
	return sm.resumeWindow
}

// onSessionDetach is installed on every session; it fires when a
// connection drops.
func (sm *SessionManager) onSessionDetach(s *Session) {
	middleware.RecordSessionDetach()
}

// cleanupLoop periodically removes expired sessions and refreshes the
// overflow state gauge.
func (sm *SessionManager) cleanupLoop() {
	defer close(sm.cleanupDone)

	sm.cleanupMu.Lock()
	sm.cleanupTicker = time.NewTicker(sm.cleanupInterval)
	sm.cleanupMu.Unlock()

	defer func() {
		sm.cleanupMu.Lock()
		if sm.cleanupTicker != nil {
			sm.cleanupTicker.Stop()
		}
		sm.cleanupMu.Unlock()
	}()

	for {
		sm.cleanupMu.Lock()
		ticker := sm.cleanupTicker
		sm.cleanupMu.Unlock()

		select {
		case <-ticker.C:
			sm.cleanupExpired()
			sm.refreshStateGauge()
		case <-sm.done:
			return
		}
	}
}

// cleanupExpired removes detached sessions past the resume window and idle
// sessions past the idle timeout.
func (sm *SessionManager) cleanupExpired() {
	sm.mu.RLock()
	now := time.Now()
	var expired []string
	for id, session := range sm.sessions {
		if session.IsDetached() {
			if now.Sub(session.DetachedAt()) > sm.resumeWindow {
				expired = append(expired, id)
			}
			continue
		}
		if now.Sub(session.LastActive()) > sm.config.IdleTimeout {
			expired = append(expired, id)
		}
	}
	sm.mu.RUnlock()

	for _, id := range expired {
		sm.Close(id)
	}

	if len(expired) > 0 {
		sm.logger.Info("cleaned up expired sessions",
			"count", len(expired),
			"remaining", sm.Count())
	}
}

// refreshStateGauge publishes the total number of overflow states across
// all sessions.
func (sm *SessionManager) refreshStateGauge() {
	total := 0
	sm.ForEach(func(s *Session) bool {
		total += s.Registry().Size()
		return true
	})
	middleware.RecordOverflowStates(total)
}

// ForEach iterates over all sessions.
// The callback should not perform long-running operations as it holds the
// read lock.
func (sm *SessionManager) ForEach(fn func(*Session) bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for _, session := range sm.sessions {
		if !fn(session) {
			break
		}
	}
}

// SetOnSessionCreate sets the callback for session creation.
func (sm *SessionManager) SetOnSessionCreate(fn func(*Session)) {
	sm.onSessionCreate = fn
}

// SetOnSessionClose sets the callback for session close.
func (sm *SessionManager) SetOnSessionClose(fn func(*Session)) {
	sm.onSessionClose = fn
}

// Shutdown gracefully shuts down all sessions.
func (sm *SessionManager) Shutdown() {
	sm.ShutdownWithContext(context.Background())
}

// ShutdownWithContext gracefully shuts down all sessions.
func (sm *SessionManager) ShutdownWithContext(ctx context.Context) error {
	// Stop the cleanup loop and wait for it to exit.
	close(sm.done)
	<-sm.cleanupDone

	sm.mu.Lock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.sessions = make(map[string]*Session)
	sm.mu.Unlock()

	var wg sync.WaitGroup
	for _, session := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			s.Close()
			sm.totalClosed.Add(1)
			if sm.onSessionClose != nil {
				sm.onSessionClose(s)
			}
		}(session)
	}
	wg.Wait()

	sm.logger.Info("session manager shutdown",
		"closed_sessions", len(sessions))

	return nil
}

// Stats returns aggregated session statistics.
func (sm *SessionManager) Stats() ManagerStats {
	sm.mu.RLock()
	active := 0
	detached := 0
	states := 0
	for _, s := range sm.sessions {
		if s.IsDetached() {
			detached++
		} else {
			active++
		}
		states += s.Registry().Size()
	}
	peak := sm.peakSessions
	sm.mu.RUnlock()

	return ManagerStats{
		Active:       active,
		Detached:     detached,
		States:       states,
		TotalCreated: sm.totalCreated.Load(),
		TotalClosed:  sm.totalClosed.Load(),
		Peak:         peak,
	}
}

// ManagerStats contains aggregated session manager statistics.
type ManagerStats struct {
	Active       int
	Detached     int
	States       int
	TotalCreated uint64
	TotalClosed  uint64
	Peak         int
}
