package overflow

// Token is a scroll-overflow style value.
//
// The zero value Unset means "not explicitly styled": forward sync removes
// the property rather than writing an empty string. Tokens outside the
// recognized set are accepted and passed to the surface verbatim; the
// surface is the authority on validation.
type Token string

const (
	// Unset is the empty sentinel: the property is not explicitly styled.
	Unset Token = ""

	Auto    Token = "auto"
	Hidden  Token = "hidden"
	Scroll  Token = "scroll"
	Visible Token = "visible"
	Inherit Token = "inherit"
)

// The style property names a State synchronizes.
const (
	propOverflow  = "overflow"
	propOverflowX = "overflow-x"
	propOverflowY = "overflow-y"
)

// Properties returns the style property names a State synchronizes, in
// declaration order.
func Properties() []string {
	return []string{propOverflow, propOverflowX, propOverflowY}
}

// Recognized reports whether t is in the closed set of known overflow
// tokens (or Unset). Unknown tokens still sync; this exists for callers
// that want to warn about typos.
func (t Token) Recognized() bool {
	switch t {
	case Unset, Auto, Hidden, Scroll, Visible, Inherit:
		return true
	}
	return false
}
