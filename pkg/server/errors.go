package server

import "errors"

var (
	// ErrMaxSessionsReached is returned when the session limit is reached.
	ErrMaxSessionsReached = errors.New("server: maximum sessions reached")

	// ErrSessionNotFound is returned when a session ID is unknown or expired.
	ErrSessionNotFound = errors.New("server: session not found")

	// ErrSessionClosed is returned when operating on a closed session.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrPatchQueueFull is returned when the outbound patch queue is full.
	ErrPatchQueueFull = errors.New("server: patch queue full")
)
