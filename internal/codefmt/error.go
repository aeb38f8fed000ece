package codefmt

import (
	"fmt"
	"go/token"
)

// CodeError indicates where the error occurred in user's source code.
type CodeError struct {
	err  error
	kind error
	pos  token.Pos
	end  token.Pos
	fset *token.FileSet
}

// Unwrap returns the underlying error.
func (e CodeError) Unwrap() error { return e.err }

// Is reports whether target is the kind of the error. It makes kinds
// matchable with [errors.Is].
func (e CodeError) Is(target error) bool {
	return e.kind != nil && e.kind == target
}

// Pos returns the position where the error occurred. It may be invalid.
func (e CodeError) Pos() token.Pos { return e.pos }

// End returns the end position of the error. It may be invalid.
func (e CodeError) End() token.Pos { return e.end }

// Error implements the error interface. If pos is valid, the position is
// prepended to the error message.
func (e CodeError) Error() string {
	if e.err == nil {
		return ""
	}

	if !e.pos.IsValid() || e.fset == nil {
		return e.err.Error()
	}

	return fmt.Sprintf("%s: %s", FormatPosition(e.fset.Position(e.pos)), e.err.Error())
}

// Failf formats an error message tagged with a kind. The error indicates the
// position in the source code if the position is valid. The kind is usually a
// sentinel error, and the returned error matches it with [errors.Is]. The kind
// does not appear in the message.
func (f Formatter) Failf(kind error, poser Poser, format string, args ...any) error {
	// Prevent wrapping error in args
	for _, arg := range args {
		if _, ok := arg.(error); ok {
			panic("CodeError cannot wrap error")
		}
	}

	var pos, end token.Pos
	if poser != nil {
		pos = poser.Pos()
		if ender, ok := poser.(Ender); ok {
			end = ender.End()
		}
	}

	args = f.wrapPrintfArgs(args)
	err := fmt.Errorf(format, args...)
	return &CodeError{err, kind, pos, end, f.Fset}
}
