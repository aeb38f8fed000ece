package expand

import (
	"github.com/Kolsky/extend/internal/codefmt"
	"github.com/Kolsky/extend/internal/syntax"
	"github.com/Kolsky/extend/pkg/exterrors"
)

// Receiver is the type which the generated trait is implemented for.
type Receiver struct {
	// Type is the type annotation of the first parameter.
	Type syntax.Type

	// Mut is true if the first parameter is "mut self: Type". A reference
	// in the type, such as "self: &mut T", does not set it.
	Mut bool

	// Param is the first parameter.
	Param *syntax.Param
}

// ExtractReceiver validates the first parameter of fn and returns the
// receiver described by it.
func ExtractReceiver(f codefmt.Formatter, fn *syntax.Function) (Receiver, error) {
	if len(fn.Params) == 0 {
		return Receiver{}, f.Failf(exterrors.MissingReceiver, fn.Name, "first parameter must be `self: Type`")
	}

	first := fn.Params[0]
	switch first.Kind {
	case syntax.SelfParam:
		return Receiver{}, f.Failf(exterrors.ImplicitReceiverNotAllowed, first, "indicate the type of self, e.g. `self: Type`")
	case syntax.UntypedParam:
		return Receiver{}, f.Failf(exterrors.MissingTypeAnnotation, first, "missing type annotation for parameter")
	}

	// The body refers to the receiver as self, so no other binding can be
	// the receiver.
	id, ok := first.Pat.(*syntax.IdentPat)
	if !ok || id.Name != "self" || id.ByRef || id.Sub != nil {
		return Receiver{}, f.Failf(exterrors.MissingReceiver, first.Pat, "first parameter must be `self: Type`")
	}

	return Receiver{Type: *first.Type, Mut: id.Mut, Param: first}, nil
}
