package syntax

// SelfArg is the receiver of a method: "self" or "mut self".
type SelfArg struct {
	Mut bool
}

// ParamDecl is a "pattern: Type" parameter of a generated function.
type ParamDecl struct {
	Pat  Pattern
	Type *Type
}

// FnDecl is a generated function or method.
//
// A method declared in a trait has neither Body nor Expr. Body is copied
// verbatim from the user's source. Expr is a synthesized single-expression
// body.
type FnDecl struct {
	Attrs    []Attr
	Vis      string
	Quals    []string
	Name     string
	Generics Generics
	Self     *SelfArg
	Params   []ParamDecl
	Ret      *Type
	Where    []Predicate
	Body     *Block
	Expr     string
}

// TraitDecl is a generated trait.
type TraitDecl struct {
	Attrs    []string
	Vis      string
	Name     string
	Generics Generics
	Where    []Predicate
	Methods  []*FnDecl
}

// ImplDecl is a generated trait implementation for a type.
type ImplDecl struct {
	Generics  Generics
	Trait     string
	TraitArgs string
	SelfType  *Type
	Where     []Predicate
	Methods   []*FnDecl
}
