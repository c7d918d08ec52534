package server

import (
	"github.com/scrollock-dev/scrollock/pkg/style"
)

// Message types exchanged over the WebSocket. Everything is JSON.
const (
	msgHello = "hello"
	msgPatch = "patch"
	msgEvent = "event"
	msgPing  = "ping"
	msgPong  = "pong"
)

// Event actions understood by the server.
const (
	ActionHide     = "hide"
	ActionRestore  = "restore"
	ActionHideX    = "hide-x"
	ActionHideY    = "hide-y"
	ActionRestoreX = "restore-x"
	ActionRestoreY = "restore-y"

	// ActionSet writes an arbitrary value to one axis. Axis selects the
	// target ("overflow", "overflow-x", "overflow-y") and Value carries
	// the token. An empty Value clears the axis.
	ActionSet = "set"
)

// clientMessage is the envelope for everything the client sends. The Type
// field selects which of the remaining fields are meaningful.
type clientMessage struct {
	Type string `json:"type"`

	// Hello fields. Session is empty for a fresh connect, or a previous
	// session ID for a resume attempt. Styles carries the document's
	// current inline overflow declarations so the server mirror starts
	// from reality instead of from zero values.
	Session string            `json:"session,omitempty"`
	Styles  map[string]string `json:"styles,omitempty"`

	// Event fields.
	Action string `json:"action,omitempty"`
	Axis   string `json:"axis,omitempty"`
	Value  string `json:"value,omitempty"`
}

// serverHello acknowledges the handshake.
type serverHello struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Resumed bool   `json:"resumed"`
}

// patchMessage carries style patches for the client to apply to its
// document element.
type patchMessage struct {
	Type    string        `json:"type"`
	Patches []style.Patch `json:"patches"`
}

// pingMessage is the heartbeat sent by the server; the client answers
// with a pong clientMessage.
type pingMessage struct {
	Type string `json:"type"`
}
