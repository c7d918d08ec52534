package overflow

import (
	"sync"

	"github.com/scrollock-dev/scrollock/pkg/reactive"
)

// State is the overflow state triple for a single surface: one observable
// cell per style property. Callers may read and assign the cells directly
// for fine-grained control, or use the mutators below.
//
// All side effects on the bound surface flow through the cells' forward
// subscriptions; State never touches the surface directly.
type State struct {
	// Overflow is the combined overflow property.
	Overflow *reactive.Value[Token]

	// OverflowX is the overflow-x property.
	OverflowX *reactive.Value[Token]

	// OverflowY is the overflow-y property.
	OverflowY *reactive.Value[Token]

	// bindOnce runs the sync-controller wiring at most once per state.
	// Concurrent accessors serialize on it, so nobody receives the state
	// ahead of an in-flight read-back.
	bindOnce sync.Once
}

func newState() *State {
	return &State{
		Overflow:  reactive.NewValue(Unset),
		OverflowX: reactive.NewValue(Unset),
		OverflowY: reactive.NewValue(Unset),
	}
}

// Hide sets all three cells to hidden, locking the surface against
// scrolling on both axes.
func (s *State) Hide() {
	s.Overflow.Set(Hidden)
	s.OverflowX.Set(Hidden)
	s.OverflowY.Set(Hidden)
}

// HideX sets only the overflow-x cell to hidden.
func (s *State) HideX() {
	s.OverflowX.Set(Hidden)
}

// HideY sets only the overflow-y cell to hidden.
func (s *State) HideY() {
	s.OverflowY.Set(Hidden)
}

// Restore sets all three cells to Unset, removing the style properties
// from the bound surface.
func (s *State) Restore() {
	s.Overflow.Set(Unset)
	s.OverflowX.Set(Unset)
	s.OverflowY.Set(Unset)
}

// RestoreX sets only the overflow-x cell to Unset.
func (s *State) RestoreX() {
	s.OverflowX.Set(Unset)
}

// RestoreY sets only the overflow-y cell to Unset.
func (s *State) RestoreY() {
	s.OverflowY.Set(Unset)
}

// Axis returns the cell managing the given style property, or nil if the
// property is not one of the three overflow properties.
func (s *State) Axis(property string) *reactive.Value[Token] {
	switch property {
	case propOverflow:
		return s.Overflow
	case propOverflowX:
		return s.OverflowX
	case propOverflowY:
		return s.OverflowY
	}
	return nil
}
