package expand

import (
	"fmt"
	"strings"

	"github.com/Kolsky/extend/internal/codefmt"
	"github.com/Kolsky/extend/internal/syntax"
	"github.com/Kolsky/extend/pkg/exterrors"
)

// Arg is a non-receiver parameter in the two forms used by the generated
// declarations.
type Arg struct {
	Param *syntax.Param

	// Sig is the signature form: a bare name for the trait method and the
	// wrapper function.
	Sig *syntax.IdentPat

	// Keep is the preserving form: the pattern of the implementation method.
	Keep syntax.Pattern

	Type *syntax.Type
}

// Normalize derives both forms of every parameter. It stops at the first
// parameter which has no signature form.
func Normalize(f codefmt.Formatter, params []*syntax.Param) ([]Arg, error) {
	args := make([]Arg, len(params))
	for i, param := range params {
		sig, err := SignatureForm(f, param)
		if err != nil {
			return nil, err
		}
		args[i] = Arg{
			Param: param,
			Sig:   sig,
			Keep:  PreservingForm(param.Pat),
			Type:  param.Type,
		}
	}

	// A name trimmed from "_x @ sub" must not shadow another parameter.
	count := make(map[string]int, len(args))
	for _, arg := range args {
		count[arg.Sig.Name]++
	}
	for i, arg := range args {
		orig := binding(arg.Param.Pat)
		if orig.Name != arg.Sig.Name && count[arg.Sig.Name] > 1 {
			args[i].Sig = &syntax.IdentPat{Span: arg.Sig.Span, Name: orig.Name}
		}
	}
	return args, nil
}

// SignatureForm returns the bare name of a parameter pattern. References are
// unwrapped, and ref, mut and at-binding sub-patterns are stripped:
//
//	x                  => x
//	mut x              => x
//	&(ref mut x)       => x
//	n @ Point { .. }   => n
//	_n @ (a, b)        => n
//	(a, b)             => UnnamedParameterNotAllowed
//
// The result of an at-binding whose name is marked unused has the leading
// underscores removed, unless the remaining name is not a valid name.
// SignatureForm of a signature form is itself.
func SignatureForm(f codefmt.Formatter, param *syntax.Param) (*syntax.IdentPat, error) {
	if param.Kind != syntax.TypedParam {
		return nil, f.Failf(exterrors.MissingTypeAnnotation, param, "missing type annotation for parameter")
	}

	id := binding(param.Pat)
	if id == nil {
		return nil, f.Failf(exterrors.UnnamedParameterNotAllowed, param.Pat, "unnamed parameters are not allowed, consider using @-bindings")
	}

	name := id.Name
	if id.IsAtBinding() && id.IsUnused() {
		if trimmed := strings.TrimLeft(name, "_"); codefmt.IsIdent(trimmed) {
			name = trimmed
		}
	}
	return &syntax.IdentPat{Span: id.Span, Name: name}, nil
}

// binding returns the identifier pattern under reference patterns, or nil if
// the pattern has no top-level name.
func binding(pat syntax.Pattern) *syntax.IdentPat {
	for {
		switch p := pat.(type) {
		case *syntax.IdentPat:
			return p
		case *syntax.RefPat:
			pat = p.Elem
		case *syntax.OtherPat:
			return nil
		default:
			panic(fmt.Sprintf("unknown pattern: %T", pat))
		}
	}
}

// PreservingForm returns the pattern to be used in the implementation method.
// It is the pattern itself, except that "_x @ sub" is replaced with sub,
// including under reference patterns. A pattern which is not replaced is
// returned as is, so it renders exactly as written.
//
//	n @ (a, b)     => n @ (a, b)
//	_n @ (a, b)    => (a, b)
//	&_n @ (a, b)   => &(a, b)
func PreservingForm(pat syntax.Pattern) syntax.Pattern {
	switch p := pat.(type) {
	case *syntax.IdentPat:
		if p.IsAtBinding() && p.IsUnused() {
			return p.Sub
		}
		return p
	case *syntax.RefPat:
		elem := PreservingForm(p.Elem)
		if elem == p.Elem {
			return p
		}
		return &syntax.RefPat{Span: p.Span, Mut: p.Mut, Elem: elem}
	case *syntax.OtherPat:
		return p
	default:
		panic(fmt.Sprintf("unknown pattern: %T", pat))
	}
}
