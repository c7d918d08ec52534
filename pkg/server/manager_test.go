package server

import (
	"log/slog"
	"testing"
	"time"
)

func newTestManager(t *testing.T, maxSessions int, resumeWindow time.Duration) *SessionManager {
	t.Helper()
	sm := NewSessionManager(DefaultSessionConfig(), maxSessions, resumeWindow, time.Minute, slog.Default())
	t.Cleanup(sm.Shutdown)
	return sm
}

// backdateDetach ages a detached session past the resume window.
func backdateDetach(s *Session, age time.Duration) {
	s.mu.Lock()
	s.detachedAt = time.Now().Add(-age)
	s.mu.Unlock()
}

func TestManagerCreateAndGet(t *testing.T) {
	sm := newTestManager(t, 0, 0)

	s, err := sm.Create(nil, map[string]string{"overflow": "auto"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if s.ID == "" {
		t.Error("session ID is empty")
	}
	if sm.Count() != 1 {
		t.Errorf("Count() = %d, want 1", sm.Count())
	}
	if sm.Get(s.ID) != s {
		t.Error("Get() did not return the created session")
	}
	if sm.Get("missing") != nil {
		t.Error("Get() returned a session for an unknown ID")
	}
}

func TestManagerMaxSessions(t *testing.T) {
	sm := newTestManager(t, 1, 0)

	if _, err := sm.Create(nil, nil); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := sm.Create(nil, nil); err != ErrMaxSessionsReached {
		t.Errorf("Create() = %v, want ErrMaxSessionsReached", err)
	}
}

func TestManagerClose(t *testing.T) {
	sm := newTestManager(t, 0, 0)

	s, err := sm.Create(nil, nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	sm.Close(s.ID)

	if sm.Count() != 0 {
		t.Errorf("Count() = %d after Close, want 0", sm.Count())
	}
	if !s.IsClosed() {
		t.Error("session not closed by manager Close")
	}

	// Closing an unknown ID is a no-op.
	sm.Close("missing")
}

func TestManagerResume(t *testing.T) {
	sm := newTestManager(t, 0, time.Minute)

	s, err := sm.Create(nil, nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	s.Detach()

	resumed, err := sm.Resume(s.ID, nil)
	if err != nil {
		t.Fatalf("Resume() error: %v", err)
	}
	if resumed != s {
		t.Error("Resume() returned a different session")
	}
	if s.IsDetached() {
		t.Error("session still detached after Resume")
	}
}

func TestManagerResumeUnknown(t *testing.T) {
	sm := newTestManager(t, 0, 0)

	if _, err := sm.Resume("missing", nil); err != ErrSessionNotFound {
		t.Errorf("Resume() = %v, want ErrSessionNotFound", err)
	}
}

func TestManagerResumeExpired(t *testing.T) {
	sm := newTestManager(t, 0, time.Minute)

	s, err := sm.Create(nil, nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	s.Detach()
	backdateDetach(s, 2*time.Minute)

	if _, err := sm.Resume(s.ID, nil); err != ErrSessionNotFound {
		t.Errorf("Resume() = %v, want ErrSessionNotFound", err)
	}
	if sm.Count() != 0 {
		t.Errorf("Count() = %d after expired resume, want 0", sm.Count())
	}
}

func TestManagerCleanupExpired(t *testing.T) {
	sm := newTestManager(t, 0, time.Minute)

	fresh, _ := sm.Create(nil, nil)
	stale, _ := sm.Create(nil, nil)
	stale.Detach()
	backdateDetach(stale, 2*time.Minute)

	sm.cleanupExpired()

	if sm.Get(stale.ID) != nil {
		t.Error("expired detached session not cleaned up")
	}
	if sm.Get(fresh.ID) == nil {
		t.Error("fresh session cleaned up")
	}
}

func TestManagerStats(t *testing.T) {
	sm := newTestManager(t, 0, time.Minute)

	a, _ := sm.Create(nil, nil)
	b, _ := sm.Create(nil, nil)
	a.Document()
	b.Detach()

	stats := sm.Stats()
	if stats.Active != 1 {
		t.Errorf("Active = %d, want 1", stats.Active)
	}
	if stats.Detached != 1 {
		t.Errorf("Detached = %d, want 1", stats.Detached)
	}
	if stats.TotalCreated != 2 {
		t.Errorf("TotalCreated = %d, want 2", stats.TotalCreated)
	}
	// Every registry seeds its default identity.
	if stats.States != 2 {
		t.Errorf("States = %d, want 2", stats.States)
	}
}

func TestManagerShutdownClosesSessions(t *testing.T) {
	sm := NewSessionManager(DefaultSessionConfig(), 0, 0, time.Minute, slog.Default())

	a, _ := sm.Create(nil, nil)
	b, _ := sm.Create(nil, nil)

	sm.Shutdown()

	if !a.IsClosed() || !b.IsClosed() {
		t.Error("sessions not closed by Shutdown")
	}
	if sm.Count() != 0 {
		t.Errorf("Count() = %d after Shutdown, want 0", sm.Count())
	}
}
