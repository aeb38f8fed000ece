package codefmt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kolsky/extend/internal/codefmt"
)

func TestWriterIndent(t *testing.T) {
	var b strings.Builder
	w := codefmt.NewWriter(&b, nil)

	w.Printf("trait f {\n")
	w.WithIndent("    ").Printf("fn f(self);\n")
	w.Printf("}\n")

	assert.Equal(t, "trait f {\n    fn f(self);\n}\n", b.String())
}

func TestWriterIndentSkipsEmptyLines(t *testing.T) {
	var b strings.Builder
	w := codefmt.NewWriter(&b, nil).WithIndent("\t")

	w.Printf("a\n\nb\n")

	assert.Equal(t, "\ta\n\n\tb\n", b.String())
}

func TestWriterVerbatim(t *testing.T) {
	var b strings.Builder
	w := codefmt.NewWriter(&b, nil).WithIndent("    ")

	w.Printf("fn f(self) ")
	w.Verbatim("{\n  x\n}")
	w.Printf("\n")
	w.Verbatim("#[inline]\n")
	w.Printf("y\n")

	assert.Equal(t, "    fn f(self) {\n  x\n}\n    #[inline]\n    y\n", b.String())
}
