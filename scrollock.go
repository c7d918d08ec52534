// Package scrollock provides the public API for the scrollock overflow
// state service.
//
// This is the recommended import for most applications:
//
//	import "github.com/scrollock-dev/scrollock"
//
// Usage:
//
//	registry := scrollock.NewRegistry()
//	doc := registry.Document()
//	doc.Hide()
//	cleanup := doc.Overflow.Subscribe(func(t scrollock.Token) { ... })
package scrollock

import (
	"github.com/scrollock-dev/scrollock/pkg/overflow"
	"github.com/scrollock-dev/scrollock/pkg/reactive"
	"github.com/scrollock-dev/scrollock/pkg/style"
)

// =============================================================================
// Overflow state (re-export from pkg/overflow)
// =============================================================================

// Token is a scroll-overflow style value.
type Token = overflow.Token

// Token constants.
const (
	Unset   = overflow.Unset
	Auto    = overflow.Auto
	Hidden  = overflow.Hidden
	Scroll  = overflow.Scroll
	Visible = overflow.Visible
	Inherit = overflow.Inherit
)

// State is the observable overflow triple for a single surface.
type State = overflow.State

// Registry maps surfaces to their shared overflow state.
type Registry = overflow.Registry

// Option configures a Registry.
type Option = overflow.Option

// NewRegistry creates a registry with its default identity pre-seeded.
var NewRegistry = overflow.NewRegistry

// WithDocument sets the resolver for the registry's default identity.
var WithDocument = overflow.WithDocument

// =============================================================================
// Surfaces (re-export from pkg/style)
// =============================================================================

// Surface is anything with mutable style properties.
type Surface = style.Surface

// Element is an in-memory surface with ordered inline declarations.
type Element = style.Element

// Remote is a surface mirroring a document that lives elsewhere.
type Remote = style.Remote

// Patch is a single style mutation, shaped for JSON transport.
type Patch = style.Patch

// NewElement creates an empty in-memory surface.
var NewElement = style.NewElement

// ParseInline parses an inline style declaration into an Element.
var ParseInline = style.ParseInline

// NewRemote creates a remote surface backed by a mirror and a patch sink.
var NewRemote = style.NewRemote

// =============================================================================
// Reactive primitives (re-export from pkg/reactive)
// =============================================================================

// Value is an observable cell.
type Value[T any] = reactive.Value[T]

// Cleanup removes a subscription when called.
type Cleanup = reactive.Cleanup

// NewValue creates an observable cell with the given initial value.
func NewValue[T any](initial T) *Value[T] {
	return reactive.NewValue(initial)
}
