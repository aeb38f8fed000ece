package codefmt

import (
	"fmt"
	"go/token"
	"io"
)

type (
	Fsetter interface{ Fset() *token.FileSet }
	Poser   interface{ Pos() token.Pos }
	Ender   interface{ End() token.Pos }
	Coder   interface{ Code() string }
)

func (f Formatter) wrapPrintfArgs(args []any) []any {
	for i, arg := range args {
		switch arg := arg.(type) {
		case token.Pos, token.Position:
			args[i] = formatArg{arg, f}
		case Coder, Poser:
			args[i] = formatArg{arg, f}
		}
	}
	return args
}

type formatArg struct {
	x   any
	fmt Formatter
}

func (f formatArg) Coder() Coder {
	if x, ok := f.x.(Coder); ok {
		return x
	}
	return nil
}

func (f formatArg) Position() *token.Position {
	if f.fmt.Fset == nil {
		if x, ok := f.x.(token.Position); ok {
			return &x
		}
		return nil
	}
	switch x := f.x.(type) {
	case token.Position:
		return &x
	case token.Pos:
		p := f.fmt.Fset.Position(x)
		return &p
	case Poser:
		p := f.fmt.Fset.Position(x.Pos())
		return &p
	}
	return nil
}

// Format implements fmt.Formatter interface.
//
// Supported verbs:
//
//	%c: syntax node - source code form, whitespace collapsed
//	%b: token.Pos, token.Position or syntax node - file:line:column form
//
// For other verbs, it falls back to the default formatting of fmt package.
func (f formatArg) Format(s fmt.State, verb rune) {
	switch verb {
	case 'c':
		coder := f.Coder()
		if coder == nil {
			fmt.Fprintf(s, "[%%c cannot format %T]", f.x)
			return
		}
		_, _ = s.Write([]byte(f.fmt.Code(coder)))

	case 'b':
		pos := f.Position()
		if pos == nil {
			fmt.Fprintf(s, "[%%b cannot format %T]", f.x)
			return
		}
		_, _ = s.Write([]byte(FormatPosition(*pos)))

	default:
		fmt.Fprintf(s, fmt.FormatString(s, verb), f.x)
	}
}

func (f Formatter) Fprintf(w io.Writer, format string, args ...any) (int, error) {
	args = f.wrapPrintfArgs(args)
	return fmt.Fprintf(w, format, args...)
}
