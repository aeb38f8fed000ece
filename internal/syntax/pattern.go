package syntax

import "strings"

// Pattern is a parameter pattern. The set of patterns is closed:
//
//	*IdentPat  ref? mut? name (@ sub)?
//	*RefPat    &pat, &mut pat
//	*OtherPat  everything else (tuples, structs, slices, literals, _, ...)
//
// Code returns the original text of a pattern parsed from source. A pattern
// built by the expansion has no text and is rendered from its fields.
type Pattern interface {
	Node
	pattern()
}

// IdentPat is an identifier pattern, optionally bound alongside a
// sub-pattern ("at-binding").
type IdentPat struct {
	Span
	ByRef bool
	Mut   bool
	Name  string
	Sub   Pattern
	Text  string
}

// RefPat is a reference pattern.
type RefPat struct {
	Span
	Mut  bool
	Elem Pattern
	Text string
}

// OtherPat is a pattern with no top-level name.
type OtherPat struct {
	Span
	Text string
}

func (*IdentPat) pattern() {}
func (*RefPat) pattern()   {}
func (*OtherPat) pattern() {}

func (p *IdentPat) Code() string {
	if p.Text != "" {
		return p.Text
	}

	var b strings.Builder
	if p.ByRef {
		b.WriteString("ref ")
	}
	if p.Mut {
		b.WriteString("mut ")
	}
	b.WriteString(p.Name)
	if p.Sub != nil {
		b.WriteString(" @ ")
		b.WriteString(p.Sub.Code())
	}
	return b.String()
}

func (p *RefPat) Code() string {
	if p.Text != "" {
		return p.Text
	}

	var b strings.Builder
	b.WriteByte('&')
	if p.Mut {
		b.WriteString("mut ")
	}

	// "&mut x" is a mutable reference pattern, "&(mut x)" is a shared
	// reference pattern with a mutable binding.
	elem := p.Elem.Code()
	if id, ok := p.Elem.(*IdentPat); ok && (id.ByRef || id.Mut || id.Sub != nil) {
		elem = "(" + elem + ")"
	}
	b.WriteString(elem)
	return b.String()
}

func (p *OtherPat) Code() string { return p.Text }

// IsAtBinding reports whether the pattern is "name @ sub".
func (p *IdentPat) IsAtBinding() bool { return p.Sub != nil }

// IsUnused reports whether the name follows the "_name" convention for
// bindings that are intentionally unused.
func (p *IdentPat) IsUnused() bool {
	return strings.HasPrefix(p.Name, "_")
}
