package codefmt

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

// Formatter formats syntax nodes and positions of a Rust source file set.
type Formatter struct {
	Fset *token.FileSet
}

func New(fset *token.FileSet) Formatter {
	return Formatter{Fset: fset}
}

func newByFsetter(fsetter Fsetter) Formatter {
	if fsetter == nil {
		return New(nil)
	}
	return New(fsetter.Fset())
}

// Code returns the source code of the given node. Runs of whitespace are
// collapsed so that multi-line nodes fit in a single diagnostic line.
//
// e.g., f.Code([pattern for "(a,\n b)"]) => "(a, b)"
func (f Formatter) Code(coder Coder) string {
	if coder == nil {
		return "<nil>"
	}
	return strings.Join(strings.Fields(coder.Code()), " ")
}

// wd is the cached working directory.
var wd, _ = os.Getwd()

func FormatPosition(pos token.Position) string {
	if !pos.IsValid() {
		return "-:-"
	}

	filename := pos.Filename
	if rel, err := filepath.Rel(wd, filename); err == nil && !strings.HasPrefix(rel, "..") {
		filename = rel
	}

	return fmt.Sprintf("%s:%d:%d", filename, pos.Line, pos.Column)
}
