package overflow

import (
	"sync"

	"github.com/scrollock-dev/scrollock/pkg/reactive"
	"github.com/scrollock-dev/scrollock/pkg/style"
)

// Registry maps surfaces to their overflow states.
//
// Keys compare by reference: the map is keyed by Surface interface value,
// and every shipped implementation is a pointer, so two distinct surface
// handles never collapse to one entry. The nil key is the distinguished
// default identity, the root document surface.
//
// Entries are created lazily and never removed. Retention is the point:
// unrelated callers share state for the same surface, and eviction would
// break that guarantee for late subscribers.
type Registry struct {
	mu     sync.Mutex
	states map[style.Surface]*State

	// document resolves the default identity to a concrete surface. May be
	// nil, or may return nil, in hosts with no real document; states still
	// exist there, they just have no style effect.
	document func() style.Surface
}

// Option configures a Registry.
type Option func(*Registry)

// WithDocument sets the resolver for the default identity. The resolver is
// consulted at bind time, not at construction, so a host may attach its
// document after the registry exists.
func WithDocument(resolve func() style.Surface) Option {
	return func(r *Registry) {
		r.document = resolve
	}
}

// NewRegistry creates a registry pre-seeded with an entry for the default
// identity.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		states: make(map[style.Surface]*State),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.states[nil] = newState()
	return r
}

// State returns the overflow state for the given surface, creating it on
// first access. Repeated calls with the same surface (by reference) return
// the same *State instance, never a copy, and never re-initialize cells.
//
// A nil surface addresses the default identity. On the first call that can
// resolve a real surface, the state is bound: current styles are read back
// into the cells, then forward sync is installed. If no surface resolves,
// binding is skipped entirely and the cells stay inert but mutable.
func (r *Registry) State(surface style.Surface) *State {
	r.mu.Lock()
	st, ok := r.states[surface]
	if !ok {
		st = newState()
		r.states[surface] = st
	}

	target := surface
	if target == nil && r.document != nil {
		target = r.document()
	}
	r.mu.Unlock()

	if target != nil {
		st.bindOnce.Do(func() {
			bind(st, target)
		})
	}
	return st
}

// Document returns the state for the default identity. Shorthand for
// State(nil).
func (r *Registry) Document() *State {
	return r.State(nil)
}

// Size returns the number of registered states, including the seeded
// default entry. Used by metrics.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

// bind wires a state to a surface: read-back first, then one forward
// subscription per axis. Read-back runs before any subscription exists, so
// reconciling the cells cannot echo a write back to the surface.
func bind(st *State, surface style.Surface) {
	syncAxis(st.Overflow, surface, propOverflow)
	syncAxis(st.OverflowX, surface, propOverflowX)
	syncAxis(st.OverflowY, surface, propOverflowY)
}

// syncAxis reconciles one cell with one style property and installs the
// forward subscription: non-empty tokens are written verbatim, Unset
// removes the property (restoring platform default, not setting "").
func syncAxis(cell *reactive.Value[Token], surface style.Surface, prop string) {
	cell.Set(Token(surface.StyleProperty(prop)))
	cell.Subscribe(func(next Token) {
		if next == Unset {
			surface.RemoveStyleProperty(prop)
			return
		}
		surface.SetStyleProperty(prop, string(next))
	})
}
