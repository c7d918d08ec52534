// Package middleware provides optional observability middleware for the
// scrollock server.
//
// Both middlewares wrap standard http.Handler values, so they compose with
// chi, gorilla, or the stdlib mux:
//
//	srv.Use(middleware.Prometheus(middleware.WithNamespace("myapp")))
//	srv.Use(middleware.OpenTelemetry())
//
// The package also exposes recorder functions (RecordPatches,
// RecordSessionCreate, ...) that the server calls at session and sync
// lifecycle points. Recorders are no-ops until Prometheus() has been
// initialized, so the server can call them unconditionally.
package middleware
