// Package server implements the HTTP/WebSocket server that mirrors a
// browser document on the server side and streams style patches to it.
//
// Each WebSocket connection gets a Session with its own overflow.Registry.
// The registry's default identity resolves to a style.Remote that mirrors
// the client's document element: reads are answered from the mirror,
// writes are forwarded to the client as JSON patch messages.
//
// Sessions survive short disconnects. A client that reconnects within the
// resume window presents its session ID in the hello message and gets its
// registry (and all observer state) back.
package server
