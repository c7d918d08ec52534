// Package overflow manages shared, observable scroll-overflow state for
// styleable surfaces.
//
// Several independent callers (a modal, a drawer, a tooltip) often need to
// toggle whether a document scrolls. Writing overflow styles directly makes
// their interleavings unpredictable; this package gives every caller the
// same source of truth instead. A Registry maps each surface to exactly one
// State: a triple of observable cells for the overflow, overflow-x, and
// overflow-y properties. Binding wires the cells to the surface — current
// styles are read back into the cells once, then every cell change is
// written forward (or the property removed, when the cell is unset).
//
//	reg := overflow.NewRegistry(overflow.WithDocument(resolve))
//	st := reg.State(nil) // nil addresses the root document surface
//	st.Hide()            // overflow, overflow-x, overflow-y → hidden
//	st.Restore()         // all three properties removed
//
// # Sharing and lifetime
//
// States are created lazily, keyed by surface reference identity, and never
// evicted: a late subscriber asking for the same surface must observe the
// same cells earlier callers mutated. Writes are last-write-wins; callers
// with overlapping hide/restore lifetimes have to coordinate externally.
//
// # Axis independence
//
// The three cells are never linked by the registry. Setting the combined
// overflow cell does not update the per-axis cells, even though the
// platform's cascade may make the combined property dominate at render
// time. This is a deliberate simplification, not a computed relationship.
package overflow
