package overflow

import (
	"sync"
	"testing"

	"github.com/scrollock-dev/scrollock/pkg/style"
)

func TestRegistrySeedsDefaultIdentity(t *testing.T) {
	r := NewRegistry()

	if r.Size() != 1 {
		t.Fatalf("expected 1 seeded entry, got %d", r.Size())
	}

	st := r.State(nil)
	if st == nil {
		t.Fatal("default state must exist before any explicit access")
	}
	if r.Size() != 1 {
		t.Errorf("accessing the default identity must not create an entry, size=%d", r.Size())
	}
}

func TestRegistryIdentitySharing(t *testing.T) {
	r := NewRegistry()
	surf := style.NewElement()

	a := r.State(surf)
	b := r.State(surf)

	if a != b {
		t.Fatal("same surface must yield the same state instance")
	}

	// A write through one handle is visible through the other immediately.
	a.Overflow.Set(Hidden)
	if got := b.Overflow.Get(); got != Hidden {
		t.Errorf("expected hidden through second handle, got %q", got)
	}
}

func TestRegistryDistinctSurfacesDistinctStates(t *testing.T) {
	r := NewRegistry()

	// Equal-looking surfaces are still distinct identities.
	a := r.State(style.ParseInline("overflow: hidden"))
	b := r.State(style.ParseInline("overflow: hidden"))

	if a == b {
		t.Fatal("distinct surfaces must not collapse to one state")
	}
	if r.Size() != 3 { // default + two explicit
		t.Errorf("expected 3 entries, got %d", r.Size())
	}
}

func TestRegistryNoReinitialization(t *testing.T) {
	r := NewRegistry()
	surf := style.NewElement()

	st := r.State(surf)
	st.OverflowY.Set(Scroll)

	again := r.State(surf)
	if got := again.OverflowY.Get(); got != Scroll {
		t.Errorf("repeated access must not reset cells, got %q", got)
	}
}

func TestRegistryDefaultResolvesDocument(t *testing.T) {
	doc := style.NewElement()
	r := NewRegistry(WithDocument(func() style.Surface { return doc }))

	st := r.State(nil)
	st.Overflow.Set(Hidden)

	if got := doc.StyleProperty("overflow"); got != "hidden" {
		t.Errorf("default identity should sync to the resolved document, got %q", got)
	}
}

func TestRegistryDocumentShorthand(t *testing.T) {
	r := NewRegistry()
	if r.Document() != r.State(nil) {
		t.Error("Document must return the default identity's state")
	}
}

func TestRegistryLateDocumentAttach(t *testing.T) {
	var doc style.Surface
	r := NewRegistry(WithDocument(func() style.Surface { return doc }))

	// No document yet: state exists, nothing to bind.
	st := r.State(nil)
	st.Hide()

	el := style.NewElement()
	doc = el

	// The next access binds; read-back reconciles cells with the (empty)
	// document style.
	if r.State(nil) != st {
		t.Fatal("late bind must not replace the state instance")
	}
	if got := st.Overflow.Get(); got != Unset {
		t.Errorf("read-back should reconcile cells with document style, got %q", got)
	}

	st.Hide()
	if got := el.StyleProperty("overflow"); got != "hidden" {
		t.Errorf("expected forward sync after late bind, got %q", got)
	}
}

func TestRegistryConcurrentBindOnce(t *testing.T) {
	el := style.ParseInline("overflow: hidden")
	r := NewRegistry(WithDocument(func() style.Surface { return el }))

	// Every caller, including ones racing the first access, must get a
	// state whose read-back already ran.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st := r.Document()
			if got := st.Overflow.Get(); got != Hidden {
				t.Errorf("Overflow = %q before read-back finished, want hidden", got)
			}
		}()
	}
	wg.Wait()
}
