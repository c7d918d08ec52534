package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scrollock-dev/scrollock/pkg/style"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(DefaultServerConfig())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Sessions().Shutdown()
	})
	return srv, ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func handshake(t *testing.T, conn *websocket.Conn, sessionID string, styles map[string]string) serverHello {
	t.Helper()
	if err := conn.WriteJSON(clientMessage{Type: msgHello, Session: sessionID, Styles: styles}); err != nil {
		t.Fatalf("hello write failed: %v", err)
	}
	var hello serverHello
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("hello read failed: %v", err)
	}
	if hello.Type != msgHello {
		t.Fatalf("hello type = %q, want %q", hello.Type, msgHello)
	}
	return hello
}

// readPatches reads patch messages until n patches arrive, skipping pings.
func readPatches(t *testing.T, conn *websocket.Conn, n int) []style.Patch {
	t.Helper()
	var out []style.Patch
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for len(out) < n {
		var msg patchMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("patch read failed after %d patches: %v", len(out), err)
		}
		if msg.Type != msgPatch {
			continue
		}
		out = append(out, msg.Patches...)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestIndexPage(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestWebSocketHideRoundTrip(t *testing.T) {
	srv, ts := newTestServer(t)

	conn := dialWS(t, ts)
	defer conn.Close()

	hello := handshake(t, conn, "", map[string]string{"overflow": "auto"})
	if hello.Session == "" {
		t.Fatal("empty session ID in server hello")
	}
	if hello.Resumed {
		t.Error("fresh session reported as resumed")
	}

	// The hello styles seeded the mirror; the server-side cell sees them.
	session := srv.Sessions().Get(hello.Session)
	if session == nil {
		t.Fatal("session not registered")
	}
	if got := session.Document().Overflow.Get(); string(got) != "auto" {
		t.Errorf("server-side Overflow = %q, want auto", got)
	}

	if err := conn.WriteJSON(clientMessage{Type: msgEvent, Action: ActionHide}); err != nil {
		t.Fatalf("event write failed: %v", err)
	}

	patches := readPatches(t, conn, 3)
	for _, p := range patches {
		if p.Op != style.PatchSet || p.Value != "hidden" {
			t.Errorf("patch %v, want set to hidden", p)
		}
	}
}

func TestWebSocketResume(t *testing.T) {
	srv, ts := newTestServer(t)

	conn := dialWS(t, ts)
	hello := handshake(t, conn, "", nil)

	// Lock the document, then drop the connection.
	if err := conn.WriteJSON(clientMessage{Type: msgEvent, Action: ActionHide}); err != nil {
		t.Fatalf("event write failed: %v", err)
	}
	readPatches(t, conn, 3)
	conn.Close()

	// Wait for the server to notice the detach.
	deadline := time.Now().Add(5 * time.Second)
	for {
		session := srv.Sessions().Get(hello.Session)
		if session != nil && session.IsDetached() {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("session never detached")
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn2 := dialWS(t, ts)
	defer conn2.Close()

	hello2 := handshake(t, conn2, hello.Session, nil)
	if !hello2.Resumed {
		t.Fatal("resume not acknowledged")
	}
	if hello2.Session != hello.Session {
		t.Errorf("resumed session ID = %q, want %q", hello2.Session, hello.Session)
	}

	// The resync pushes all three managed properties; the hidden values
	// set before the disconnect survive in the mirror.
	patches := readPatches(t, conn2, 3)
	byProp := make(map[string]style.Patch)
	for _, p := range patches {
		byProp[p.Property] = p
	}
	for _, prop := range []string{"overflow", "overflow-x", "overflow-y"} {
		p, ok := byProp[prop]
		if !ok {
			t.Fatalf("no resync patch for %s", prop)
		}
		if p.Op != style.PatchSet || p.Value != "hidden" {
			t.Errorf("%s resync patch = %v, want set to hidden", prop, p)
		}
	}
}

func TestWebSocketResumeWhileAttached(t *testing.T) {
	srv, ts := newTestServer(t)

	conn := dialWS(t, ts)
	defer conn.Close()

	hello := handshake(t, conn, "", nil)
	if err := conn.WriteJSON(clientMessage{Type: msgEvent, Action: ActionHide}); err != nil {
		t.Fatalf("event write failed: %v", err)
	}
	readPatches(t, conn, 3)

	// Reconnect before the server noticed the first connection dropping —
	// the network-blip case. The old connection stays open on purpose.
	conn2 := dialWS(t, ts)
	defer conn2.Close()

	hello2 := handshake(t, conn2, hello.Session, nil)
	if !hello2.Resumed {
		t.Fatal("resume not acknowledged")
	}
	readPatches(t, conn2, 3)

	// The resumed session must stay attached: the old connection's read
	// loop winding down must not tear down the new one.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if session := srv.Sessions().Get(hello.Session); session != nil && session.IsDetached() {
			t.Fatal("session detached right after a successful resume")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The new connection is live and serves events.
	if err := conn2.WriteJSON(clientMessage{Type: msgEvent, Action: ActionRestore}); err != nil {
		t.Fatalf("event write on resumed connection failed: %v", err)
	}
	patches := readPatches(t, conn2, 3)
	for _, p := range patches {
		if p.Op != style.PatchRemove {
			t.Errorf("patch %v, want remove", p)
		}
	}
}

func TestWebSocketResumeUnknownSessionGetsFresh(t *testing.T) {
	_, ts := newTestServer(t)

	conn := dialWS(t, ts)
	defer conn.Close()

	hello := handshake(t, conn, "no-such-session", nil)
	if hello.Resumed {
		t.Error("unknown session reported as resumed")
	}
	if hello.Session == "" || hello.Session == "no-such-session" {
		t.Errorf("session ID = %q, want a fresh ID", hello.Session)
	}
}

func TestWebSocketRejectsNonHello(t *testing.T) {
	_, ts := newTestServer(t)

	conn := dialWS(t, ts)
	defer conn.Close()

	if err := conn.WriteJSON(clientMessage{Type: msgEvent, Action: ActionHide}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// The server closes the connection without a hello.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg serverHello
	if err := conn.ReadJSON(&msg); err == nil {
		t.Errorf("expected close, got message %+v", msg)
	}
}
