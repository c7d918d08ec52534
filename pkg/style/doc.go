// Package style provides the styleable-surface abstraction for scrollock.
//
// A Surface is anything with named CSS style properties that can be read,
// set, and removed. Removing a property is distinct from setting it to the
// empty string: removal restores the platform default.
//
// Two implementations ship with the package:
//
//   - Element: an in-memory surface backed by an inline-style declaration
//     list. Used for tests and for server-side mirrors of remote documents.
//   - Remote: wraps a mirror Element and forwards every mutation as a Patch
//     to a sink, typically a WebSocket session write pump.
//
// Surface identity is reference identity. Two distinct Element values are
// distinct surfaces even if their declarations are equal, which is why the
// overflow registry keys its states by Surface interface value (pointer
// implementations compare by address).
package style
