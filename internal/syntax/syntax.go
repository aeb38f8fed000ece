// Package syntax models the parts of a Rust function item that the extension
// expansion reads and writes.
//
// Only signatures are structured. Types, bounds, where-predicates and bodies
// are kept as verbatim source text, and patterns keep their original text so
// that a pattern which is not rewritten renders exactly as the user wrote it.
package syntax

import (
	"go/token"
	"strings"
)

// Node is a piece of Rust syntax with a source span.
type Node interface {
	Pos() token.Pos
	End() token.Pos
	Code() string
}

// Span is the source range of a node. Synthesized nodes have a zero span.
type Span struct {
	From, To token.Pos
}

func (s Span) Pos() token.Pos { return s.From }
func (s Span) End() token.Pos { return s.To }

// Ident is an identifier such as a function name.
type Ident struct {
	Span
	Name string
}

func (id Ident) Code() string { return id.Name }

// Text is a node copied verbatim from the source. Types, predicates,
// qualifiers, attributes and bodies are represented as Text.
type Text struct {
	Span
	Text string
}

func (t Text) Code() string { return t.Text }

type (
	Type      = Text
	Predicate = Text
	Qualifier = Text
	Attr      = Text
)

// Block is a function body copied from the source.
type Block struct {
	Span
	Text string

	// Literal reports whether a string literal in the body spans lines. Such
	// a body is written as is, since indenting it would change the literal.
	Literal bool
}

func (b Block) Code() string { return b.Text }

// GenericKind distinguishes lifetime, type and const generic parameters.
type GenericKind int

const (
	TypeGeneric GenericKind = iota
	LifetimeGeneric
	ConstGeneric
)

// GenericParam is one parameter of a generic parameter list.
type GenericParam struct {
	Span
	Kind GenericKind
	Name string

	// Bounds is the text after the colon of a type or lifetime parameter, or
	// the type of a const parameter. It may be empty.
	Bounds string
}

// Code returns the declaration form used in "<...>" after fn, trait and impl.
func (g GenericParam) Code() string {
	switch {
	case g.Kind == ConstGeneric:
		return "const " + g.Name + ": " + g.Bounds
	case g.Bounds != "":
		return g.Name + ": " + g.Bounds
	default:
		return g.Name
	}
}

// Arg returns the argument form used to refer to the parameter, such as the
// "<T>" in "impl<T: Copy> f<T> for T".
func (g GenericParam) Arg() string { return g.Name }

// Generics is an ordered generic parameter list.
type Generics []GenericParam

// Code returns the declaration list, for example "<'a, T: Copy>". It returns
// an empty string for an empty list.
func (gs Generics) Code() string {
	if len(gs) == 0 {
		return ""
	}
	parts := make([]string, len(gs))
	for i, g := range gs {
		parts[i] = g.Code()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// Args returns the argument list, for example "<'a, T>".
func (gs Generics) Args() string {
	if len(gs) == 0 {
		return ""
	}
	parts := make([]string, len(gs))
	for i, g := range gs {
		parts[i] = g.Arg()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// ParamKind classifies a function parameter.
type ParamKind int

const (
	// TypedParam is "pattern: Type".
	TypedParam ParamKind = iota

	// SelfParam is an implicit receiver: self, mut self, &self, &'a mut self.
	SelfParam

	// UntypedParam is a parameter without a type annotation, such as a bare
	// name, "_" or "...".
	UntypedParam
)

// Param is a parameter of a function signature.
type Param struct {
	Span
	Kind ParamKind
	Pat  Pattern // only for TypedParam
	Type *Type   // only for TypedParam
	Text string
}

func (p *Param) Code() string { return p.Text }

// Function is the signature and body of a function item.
type Function struct {
	Span
	Attrs    []Attr
	Vis      string
	Quals    []Qualifier
	Name     Ident
	Generics Generics
	Params   []*Param
	Ret      *Type
	Where    []Predicate
	Body     Block
}

func (fn *Function) Code() string {
	return "fn " + fn.Name.Name
}

// Qual returns the qualifier with the given keyword, such as "async".
func (fn *Function) Qual(keyword string) (Qualifier, bool) {
	for _, q := range fn.Quals {
		if q.Text == keyword || strings.HasPrefix(q.Text, keyword+" ") {
			return q, true
		}
	}
	return Qualifier{}, false
}
