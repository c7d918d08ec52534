// Package errors provides structured, coded errors for the scrollock CLI
// and configuration loader. Each code maps to a registered template with a
// message, detail, and documentation link, so the CLI can print actionable
// diagnostics instead of bare error strings.
package errors
