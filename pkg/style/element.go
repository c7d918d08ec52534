package style

import (
	"strings"
	"sync"
)

// declaration is a single inline-style entry. Order is preserved so that
// serialization round-trips the attribute text a surface started with.
type declaration struct {
	name  string
	value string
}

// Element is an in-memory Surface backed by an inline-style declaration
// list, the way a DOM element's style attribute holds its declarations.
//
// Safe for concurrent use.
type Element struct {
	mu    sync.RWMutex
	decls []declaration
}

// NewElement creates an element with no style declarations.
func NewElement() *Element {
	return &Element{}
}

// ParseInline creates an element from inline style attribute text, e.g.
// "overflow-x: scroll; color: red". Malformed segments are skipped rather
// than rejected, matching how browsers treat style attributes.
func ParseInline(text string) *Element {
	e := NewElement()
	for _, seg := range strings.Split(text, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		idx := strings.Index(seg, ":")
		if idx <= 0 {
			continue
		}
		name := strings.TrimSpace(seg[:idx])
		value := strings.TrimSpace(seg[idx+1:])
		if name == "" || value == "" {
			continue
		}
		e.decls = append(e.decls, declaration{name: name, value: value})
	}
	return e
}

// StyleProperty implements Surface.
func (e *Element) StyleProperty(name string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, d := range e.decls {
		if d.name == name {
			return d.value
		}
	}
	return ""
}

// SetStyleProperty implements Surface. An existing declaration is updated
// in place; otherwise a new one is appended.
func (e *Element) SetStyleProperty(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, d := range e.decls {
		if d.name == name {
			e.decls[i].value = value
			return
		}
	}
	e.decls = append(e.decls, declaration{name: name, value: value})
}

// RemoveStyleProperty implements Surface.
func (e *Element) RemoveStyleProperty(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, d := range e.decls {
		if d.name == name {
			e.decls = append(e.decls[:i], e.decls[i+1:]...)
			return
		}
	}
}

// Has reports whether the named property is declared, distinguishing an
// absent property from one explicitly set to "".
func (e *Element) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, d := range e.decls {
		if d.name == name {
			return true
		}
	}
	return false
}

// Inline serializes the declarations back to style attribute text.
func (e *Element) Inline() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var b strings.Builder
	for i, d := range e.decls {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(d.name)
		b.WriteString(": ")
		b.WriteString(d.value)
	}
	return b.String()
}

// Properties returns the declared property names and values as a map.
// Used to ship a surface's current style across a session handshake.
func (e *Element) Properties() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	props := make(map[string]string, len(e.decls))
	for _, d := range e.decls {
		props[d.name] = d.value
	}
	return props
}
