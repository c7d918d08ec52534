package style

// Surface is an addressable styleable target.
//
// Implementations must be pointer-shaped: consumers key shared state by
// Surface value and rely on address equality, so a value-type implementation
// would silently collapse distinct surfaces into one entry.
type Surface interface {
	// StyleProperty returns the current value of the named property, or ""
	// if the property is not set.
	StyleProperty(name string) string

	// SetStyleProperty sets the named property to the given value verbatim.
	// Values are not validated; the surface is the authority on what it
	// accepts.
	SetStyleProperty(name, value string)

	// RemoveStyleProperty removes the named property entirely, restoring
	// default behavior. This is not the same as setting "".
	RemoveStyleProperty(name string)
}
