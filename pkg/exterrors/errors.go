// Package exterrors defines the kinds of diagnostics reported by the
// extension-method expansion.
//
// Diagnostics are position errors with a "file:line:col: message" text. Their
// kind can be tested with [errors.Is]:
//
//	_, err := extend.ExpandItem(src)
//	if errors.Is(err, exterrors.MissingTypeAnnotation) {
//		// ...
//	}
package exterrors

import "errors"

var (
	// MissingReceiver reports a function without parameters, or whose first
	// parameter is not the "self" binding.
	MissingReceiver = errors.New("missing receiver")

	// ImplicitReceiverNotAllowed reports a first parameter written as self,
	// &self or &mut self instead of "self: Type".
	ImplicitReceiverNotAllowed = errors.New("implicit receiver not allowed")

	// UnnamedParameterNotAllowed reports a parameter pattern without a
	// top-level name, such as a tuple pattern without an @-binding.
	UnnamedParameterNotAllowed = errors.New("unnamed parameter not allowed")

	// MissingTypeAnnotation reports a parameter without a type.
	MissingTypeAnnotation = errors.New("missing type annotation")

	// UnsupportedQualifier reports a const or extern function, which cannot
	// become a trait method.
	UnsupportedQualifier = errors.New("unsupported qualifier")

	// SyntaxError reports source code which could not be parsed as a function
	// item.
	SyntaxError = errors.New("syntax error")
)

var kinds = []error{
	MissingReceiver,
	ImplicitReceiverNotAllowed,
	UnnamedParameterNotAllowed,
	MissingTypeAnnotation,
	UnsupportedQualifier,
	SyntaxError,
}

// KindOf returns the first kind in the error tree of err. It returns nil if
// err has no kind, for example an I/O error.
func KindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
