package server

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/scrollock-dev/scrollock/pkg/middleware"
	"github.com/scrollock-dev/scrollock/pkg/overflow"
	"github.com/scrollock-dev/scrollock/pkg/style"
)

// Session represents a single WebSocket connection and its overflow state.
// Each session owns a registry whose default identity is a remote mirror of
// the client's document element. The registry outlives the connection: a
// detached session keeps all cells and observers until the resume window
// expires.
type Session struct {
	// Identity
	ID        string
	CreatedAt time.Time

	// mu guards the current link, the activity timestamps, and
	// connection writes.
	mu         sync.Mutex
	link       *link
	lastActive time.Time
	detachedAt time.Time

	// closed marks a session with no live connection; terminated marks
	// one closed for good, as opposed to detached and waiting for a
	// resume.
	closed     atomic.Bool
	terminated atomic.Bool

	// Overflow state
	registry *overflow.Registry
	document *style.Remote

	patches chan style.Patch

	// Configuration
	config *SessionConfig

	// Logger
	logger *slog.Logger

	// Callbacks
	onDetach func(*Session)

	// Metrics
	eventCount atomic.Uint64
	patchCount atomic.Uint64
}

// link is one attach generation: a connection plus the channel that stops
// the loops started for it. The loops capture their link at start and never
// read lifecycle fields off the session, so a resume can install a new link
// without racing loops from the previous connection.
type link struct {
	conn *websocket.Conn
	done chan struct{}
	stop sync.Once
	wg   sync.WaitGroup
}

func newLink(conn *websocket.Conn) *link {
	return &link{conn: conn, done: make(chan struct{})}
}

// retire closes the link's connection and signals its loops to stop.
// Idempotent.
func (l *link) retire() {
	l.stop.Do(func() {
		if l.conn != nil {
			l.conn.Close()
		}
		close(l.done)
	})
}

// newSession creates a session for the given connection. styles carries the
// document's reported inline declarations; they seed the mirror so the
// registry's read-back sees real values.
func newSession(conn *websocket.Conn, styles map[string]string, config *SessionConfig, logger *slog.Logger) *Session {
	now := time.Now()
	id := uuid.NewString()

	s := &Session{
		ID:         id,
		CreatedAt:  now,
		lastActive: now,
		link:       newLink(conn),
		patches:    make(chan style.Patch, config.MaxPatchQueue),
		config:     config,
		logger:     logger.With("session_id", id),
	}

	mirror := style.NewElement()
	for name, value := range styles {
		mirror.SetStyleProperty(name, value)
	}

	s.document = style.NewRemote(mirror, s.queuePatch)
	s.registry = overflow.NewRegistry(overflow.WithDocument(func() style.Surface {
		return s.document
	}))

	return s
}

// Registry returns the session's overflow registry.
func (s *Session) Registry() *overflow.Registry {
	return s.registry
}

// Document returns the overflow state of the mirrored document element,
// creating and binding it on first access.
func (s *Session) Document() *overflow.State {
	return s.registry.Document()
}

// queuePatch enqueues a style patch for delivery to the client. The mirror
// has already been updated by the time this runs, so a dropped patch only
// delays convergence until the next SyncDocument.
func (s *Session) queuePatch(p style.Patch) {
	if s.closed.Load() {
		return
	}
	select {
	case s.patches <- p:
	default:
		s.logger.Warn("patch queue full, dropping patch", "patch", p.String())
		middleware.RecordWebSocketError("patch_queue_full")
	}
}

// readLoop continuously reads messages from the link's connection.
// It blocks until the connection is closed or an error occurs, then
// detaches the session if this link is still the current one.
func (s *Session) readLoop(l *link) {
	defer l.wg.Done()
	defer s.detach(l)

	for {
		l.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		var msg clientMessage
		if err := l.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				middleware.RecordWebSocketError("read")
			}
			return
		}

		s.UpdateLastActive()

		switch msg.Type {
		case msgEvent:
			s.handleEvent(&msg)

		case msgPong:
			s.logger.Debug("received pong")

		case msgHello:
			// Handshake already happened; a second hello is a protocol bug.
			s.logger.Warn("unexpected hello after handshake")

		default:
			s.logger.Warn("unknown message type", "type", msg.Type)
		}
	}
}

// handleEvent applies a client event to the document's overflow state. The
// resulting style writes flow back to the client through the registry's
// forward sync, so the client converges even when it optimistically applied
// the change locally.
func (s *Session) handleEvent(msg *clientMessage) {
	s.eventCount.Add(1)

	st := s.registry.Document()

	switch msg.Action {
	case ActionHide:
		st.Hide()
	case ActionHideX:
		st.HideX()
	case ActionHideY:
		st.HideY()
	case ActionRestore:
		st.Restore()
	case ActionRestoreX:
		st.RestoreX()
	case ActionRestoreY:
		st.RestoreY()
	case ActionSet:
		cell := st.Axis(msg.Axis)
		if cell == nil {
			s.logger.Warn("event with unknown axis", "axis", msg.Axis)
			return
		}
		token := overflow.Token(msg.Value)
		if !token.Recognized() {
			s.logger.Debug("unrecognized overflow token, passing through", "value", msg.Value)
		}
		cell.Set(token)
	default:
		s.logger.Warn("unknown event action", "action", msg.Action)
	}
}

// writeLoop drains the patch queue and sends heartbeats.
// It runs until its link is retired.
func (s *Session) writeLoop(l *link) {
	defer l.wg.Done()

	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case p := <-s.patches:
			batch := s.drainPatches(p)
			if err := s.writeJSON(l, patchMessage{Type: msgPatch, Patches: batch}); err != nil {
				s.logger.Error("patch write error", "error", err)
				middleware.RecordWebSocketError("write")
				return
			}
			s.patchCount.Add(uint64(len(batch)))
			middleware.RecordPatches(len(batch))

		case <-ticker.C:
			if err := s.writeJSON(l, pingMessage{Type: msgPing}); err != nil {
				s.logger.Error("ping error", "error", err)
				return
			}

		case <-l.done:
			return
		}
	}
}

// drainPatches collects the first patch plus everything already queued, so
// a burst of cell writes becomes one message.
func (s *Session) drainPatches(first style.Patch) []style.Patch {
	batch := []style.Patch{first}
	for {
		select {
		case p := <-s.patches:
			batch = append(batch, p)
		default:
			return batch
		}
	}
}

// writeJSON writes a message to the link's connection under the write lock.
// A link that was superseded by a resume gets ErrSessionClosed, never the
// new connection.
func (s *Session) writeJSON(l *link, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.link != l || s.closed.Load() {
		return ErrSessionClosed
	}

	// Guard against nil connection (tests construct sessions without one).
	if l.conn == nil {
		return nil
	}

	l.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return l.conn.WriteJSON(v)
}

// SyncDocument pushes the mirror's overflow declarations to the client,
// converging the three managed properties after a resume.
func (s *Session) SyncDocument() {
	mirror := s.document.Mirror()
	for _, prop := range overflow.Properties() {
		if mirror.Has(prop) {
			s.queuePatch(style.Patch{Op: style.PatchSet, Property: prop, Value: mirror.StyleProperty(prop)})
		} else {
			s.queuePatch(style.Patch{Op: style.PatchRemove, Property: prop})
		}
	}
}

// Start starts the loops for the current link.
// This should be called after the handshake is complete.
func (s *Session) Start() {
	s.mu.Lock()
	l := s.link
	s.mu.Unlock()

	l.wg.Add(2)
	go s.readLoop(l)
	go s.writeLoop(l)
}

// Detach releases the connection but keeps the registry alive for a
// possible resume. Safe to call multiple times.
func (s *Session) Detach() {
	s.mu.Lock()
	l := s.link
	s.mu.Unlock()
	s.detach(l)
}

// detach retires the given link and, if it is still the current one, marks
// the session detached. A superseded link only gets retired: the session
// state belongs to its successor.
func (s *Session) detach(l *link) {
	l.retire()

	s.mu.Lock()
	if s.link != l || !s.closed.CompareAndSwap(false, true) {
		s.mu.Unlock()
		return
	}
	s.detachedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("session detached")

	if s.onDetach != nil {
		s.onDetach(s)
	}
}

// Resume swaps in a fresh connection after a reconnect. The registry and
// all observers are untouched; call SyncDocument afterwards to converge
// the client. Returns ErrSessionClosed if the session was terminated.
//
// The previous link is retired first and its loops are waited out, so a
// client reconnecting before the server noticed the drop cannot have the
// old read loop tear down the fresh connection.
func (s *Session) Resume(conn *websocket.Conn) error {
	if s.terminated.Load() {
		return ErrSessionClosed
	}

	s.mu.Lock()
	old := s.link
	s.mu.Unlock()

	old.retire()
	old.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated.Load() {
		return ErrSessionClosed
	}

	s.link = newLink(conn)
	s.lastActive = time.Now()
	s.detachedAt = time.Time{}
	s.closed.Store(false)

	s.logger.Info("session resumed")
	return nil
}

// Close terminates the session for good. A closed session cannot be
// resumed.
func (s *Session) Close() {
	if !s.terminated.CompareAndSwap(false, true) {
		return
	}

	s.closed.Store(true)

	s.mu.Lock()
	l := s.link
	s.mu.Unlock()
	l.retire()
}

// IsDetached reports whether the session lost its connection but is still
// resumable.
func (s *Session) IsDetached() bool {
	return s.closed.Load() && !s.terminated.Load()
}

// IsClosed reports whether the session was terminated.
func (s *Session) IsClosed() bool {
	return s.terminated.Load()
}

// LastActive returns the time of the last client activity.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// DetachedAt returns when the session lost its connection, or the zero
// time while it is attached.
func (s *Session) DetachedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detachedAt
}

// UpdateLastActive records client activity.
func (s *Session) UpdateLastActive() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// Stats returns per-session counters.
func (s *Session) Stats() SessionStats {
	return SessionStats{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		EventCount: s.eventCount.Load(),
		PatchCount: s.patchCount.Load(),
		StateCount: s.registry.Size(),
		Detached:   s.IsDetached(),
	}
}

// SessionStats is a snapshot of session counters.
type SessionStats struct {
	ID         string
	CreatedAt  time.Time
	EventCount uint64
	PatchCount uint64
	StateCount int
	Detached   bool
}

func (s *Session) setOnDetach(fn func(*Session)) {
	s.onDetach = fn
}
