package codefmt

import (
	"fmt"
	"iter"
	"slices"
	"unicode"
)

// NS manages unique names in a namespace.
type NS map[string]struct{}

// NewNS creates a new namespace which reserves all the given names.
func NewNS(names ...string) NS {
	ns := make(NS)
	for _, name := range names {
		ns.Reserve(name)
	}
	return ns
}

// Reserve marks a name as used in the namespace. If the name is already used,
// it returns false.
func (ns NS) Reserve(name string) bool {
	if _, ok := ns[name]; ok {
		return false
	}
	ns[name] = struct{}{}
	return true
}

// Has reports whether the name is already used in the namespace.
func (ns NS) Has(name string) bool {
	_, ok := ns[name]
	return ok
}

// Name returns a unique name in its namespace. Once a name is used, it is
// reserved in the namespace to avoid conflicts. If conflicts occur, a numbering
// suffix is added.
//
// Panics if the name is empty or a Rust keyword.
func (ns NS) Name(name string) string {
	if IsKeyword(name) {
		panic(fmt.Sprintf("keyword %q cannot be a name", name))
	}
	if ns == nil {
		return name
	}
	for name := range DisambiguateName(name) {
		if ok := ns.Reserve(name); ok {
			return name
		}
	}
	panic("unreachable")
}

// DisambiguateName offers an alternative unique names.
func DisambiguateName(name string) iter.Seq[string] {
	if name == "" {
		panic("empty name")
	}

	return func(yield func(string) bool) {
		if !yield(name) {
			return
		}

		// Postfix "_" to the name if it already ends with a number.
		// "answer42_2" is better than "answer422".
		sep := ""
		if name[len(name)-1] != '_' && name[len(name)-1] >= '0' && name[len(name)-1] <= '9' {
			sep = "_"
		}

		for i := 2; ; i++ {
			if !yield(fmt.Sprintf("%s%s%d", name, sep, i)) {
				return
			}
		}
	}
}

// rustKeywords are the strict and reserved keywords of Rust 2021. Raw
// identifiers (r#name) are not keywords.
var rustKeywords = []string{
	"Self", "abstract", "as", "async", "await", "become", "box", "break",
	"const", "continue", "crate", "do", "dyn", "else", "enum", "extern",
	"false", "final", "fn", "for", "if", "impl", "in", "let", "loop", "macro",
	"match", "mod", "move", "mut", "override", "priv", "pub", "ref", "return",
	"self", "static", "struct", "super", "trait", "true", "try", "type",
	"typeof", "unsafe", "unsized", "use", "virtual", "where", "while", "yield",
}

// IsKeyword reports whether the name is a Rust keyword. The empty string is
// treated as a keyword because it cannot be a name either.
func IsKeyword(name string) bool {
	return name == "" || slices.Contains(rustKeywords, name)
}

// IsIdent reports whether the name can bind a variable. Keywords and "_" are
// not identifiers, and an identifier does not start with a digit.
//
//	x, _x, x1 => true
//	1, _, fn  => false
func IsIdent(name string) bool {
	if name == "_" || IsKeyword(name) {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
