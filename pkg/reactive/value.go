package reactive

import (
	"reflect"
	"sync"
)

// Cleanup removes a subscription when called. Calling it more than once is
// safe; subsequent calls are no-ops.
type Cleanup func()

// subscription pairs a callback with a unique ID so Cleanup can remove it
// without comparing function values.
type subscription[T any] struct {
	id uint64
	fn func(T)
}

// Value is a mutable observable cell.
//
// Reads and writes are safe for concurrent use, but notification order
// between concurrent writers is unspecified: the last assignment wins and
// subscribers observe writes in whatever order the writers interleave.
type Value[T any] struct {
	id uint64

	// value is the current cell value.
	value T

	// mu protects value.
	mu sync.RWMutex

	// subs are the callbacks notified on change.
	subs []subscription[T]

	// subMu protects subs.
	subMu sync.RWMutex

	// equal is the equality function used to decide whether an assignment
	// changed the value. If nil, defaultEquals is used.
	equal func(T, T) bool
}

// NewValue creates a cell holding the given initial value.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		id:    nextID(),
		value: initial,
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set assigns a new value and notifies subscribers if it differs from the
// current one. Notification runs synchronously in the calling goroutine.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	changed := !v.equals(v.value, next)
	if changed {
		v.value = next
	}
	v.mu.Unlock()

	if changed {
		v.notify(next)
	}
}

// Update atomically derives the next value from the current one.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	next := fn(v.value)
	changed := !v.equals(v.value, next)
	if changed {
		v.value = next
	}
	v.mu.Unlock()

	if changed {
		v.notify(next)
	}
}

// Subscribe registers fn to be invoked synchronously with the new value on
// every change. The returned Cleanup removes the subscription.
func (v *Value[T]) Subscribe(fn func(T)) Cleanup {
	if fn == nil {
		return func() {}
	}

	sub := subscription[T]{id: nextID(), fn: fn}

	v.subMu.Lock()
	v.subs = append(v.subs, sub)
	v.subMu.Unlock()

	return func() {
		v.subMu.Lock()
		defer v.subMu.Unlock()
		for i, existing := range v.subs {
			if existing.id == sub.id {
				// Order doesn't matter: swap with the last entry.
				v.subs[i] = v.subs[len(v.subs)-1]
				v.subs = v.subs[:len(v.subs)-1]
				return
			}
		}
	}
}

// WithEquals configures a custom equality function and returns the cell.
// Useful for types where reflect.DeepEqual is too expensive or has the
// wrong semantics.
func (v *Value[T]) WithEquals(fn func(T, T) bool) *Value[T] {
	v.equal = fn
	return v
}

// ID returns the unique identifier for this cell.
func (v *Value[T]) ID() uint64 {
	return v.id
}

// notify invokes subscribers with the new value. Subscribers are copied
// before invocation so callbacks may subscribe or unsubscribe freely.
func (v *Value[T]) notify(next T) {
	v.subMu.RLock()
	subs := make([]subscription[T], len(v.subs))
	copy(subs, v.subs)
	v.subMu.RUnlock()

	for _, sub := range subs {
		sub.fn(next)
	}
}

func (v *Value[T]) equals(a, b T) bool {
	if v.equal != nil {
		return v.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals provides type-appropriate equality checking. Common scalar
// types use ==; everything else falls back to reflect.DeepEqual.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	default:
		return reflect.DeepEqual(a, b)
	}
}
