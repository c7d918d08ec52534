package style

// Remote is a Surface whose real styles live elsewhere, typically in a
// browser document at the other end of a WebSocket. It keeps a server-side
// mirror for reads and forwards every mutation as a Patch to a sink.
//
// The mirror is authoritative for StyleProperty: the remote document is
// assumed to apply patches in order, so the mirror and the document only
// diverge if external code mutates the document behind our back. That is
// the same trust model the initial read-back already depends on.
type Remote struct {
	mirror *Element
	send   func(Patch)
}

// NewRemote creates a remote surface. The mirror seeds reads (pass an
// Element parsed from the document's reported style) and send receives
// every mutation. A nil mirror gets an empty element; a nil send drops
// patches, leaving a purely local surface.
func NewRemote(mirror *Element, send func(Patch)) *Remote {
	if mirror == nil {
		mirror = NewElement()
	}
	return &Remote{mirror: mirror, send: send}
}

// StyleProperty implements Surface.
func (r *Remote) StyleProperty(name string) string {
	return r.mirror.StyleProperty(name)
}

// SetStyleProperty implements Surface.
func (r *Remote) SetStyleProperty(name, value string) {
	r.mirror.SetStyleProperty(name, value)
	if r.send != nil {
		r.send(Patch{Op: PatchSet, Property: name, Value: value})
	}
}

// RemoveStyleProperty implements Surface.
func (r *Remote) RemoveStyleProperty(name string) {
	r.mirror.RemoveStyleProperty(name)
	if r.send != nil {
		r.send(Patch{Op: PatchRemove, Property: name})
	}
}

// Mirror returns the server-side mirror element.
func (r *Remote) Mirror() *Element {
	return r.mirror
}
