package style

// PatchOp identifies a style mutation operation.
type PatchOp string

const (
	// PatchSet sets a property to a value.
	PatchSet PatchOp = "set"

	// PatchRemove removes a property entirely.
	PatchRemove PatchOp = "remove"
)

// Patch is a single style mutation, shaped for JSON transport to a thin
// client that applies it with style.setProperty / style.removeProperty.
type Patch struct {
	Op       PatchOp `json:"op"`
	Property string  `json:"prop"`
	Value    string  `json:"value,omitempty"`
}

// Apply replays the patch onto a surface.
func (p Patch) Apply(s Surface) {
	switch p.Op {
	case PatchSet:
		s.SetStyleProperty(p.Property, p.Value)
	case PatchRemove:
		s.RemoveStyleProperty(p.Property)
	}
}

// String returns a readable form for logs.
func (p Patch) String() string {
	if p.Op == PatchRemove {
		return "remove " + p.Property
	}
	return "set " + p.Property + "=" + p.Value
}
