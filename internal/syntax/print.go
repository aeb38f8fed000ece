package syntax

import (
	"strings"

	"github.com/Kolsky/extend/internal/codefmt"
)

// IndentUnit is the indentation of one nesting level in generated code.
const IndentUnit = "    "

// Write writes the function to w. A body copied from the source keeps its own
// indentation.
func (fn *FnDecl) Write(w *codefmt.Writer) {
	fn.write(w, "")
}

// write writes the function. shift is added to the lines of a copied body
// after the first one, so the body follows the nesting of the function.
func (fn *FnDecl) write(w *codefmt.Writer, shift string) {
	for _, attr := range fn.Attrs {
		w.Verbatim(attr.Text)
		w.Printf("\n")
	}

	w.Printf("%s", fn.header())

	switch {
	case fn.Body != nil:
		w.Printf(" ")
		body := fn.Body.Text
		if !fn.Body.Literal {
			body = indentLines(body, shift)
		}
		w.Verbatim(body)
		w.Printf("\n")
	case fn.Expr != "":
		w.Printf(" {\n")
		w.WithIndent(IndentUnit).Printf("%s\n", fn.Expr)
		w.Printf("}\n")
	default:
		w.Printf(";\n")
	}
}

func (fn *FnDecl) header() string {
	var b strings.Builder
	if fn.Vis != "" {
		b.WriteString(fn.Vis)
		b.WriteByte(' ')
	}
	for _, q := range fn.Quals {
		b.WriteString(q)
		b.WriteByte(' ')
	}
	b.WriteString("fn ")
	b.WriteString(fn.Name)
	b.WriteString(fn.Generics.Code())

	params := make([]string, 0, len(fn.Params)+1)
	if fn.Self != nil {
		if fn.Self.Mut {
			params = append(params, "mut self")
		} else {
			params = append(params, "self")
		}
	}
	for _, p := range fn.Params {
		params = append(params, p.Pat.Code()+": "+p.Type.Text)
	}
	b.WriteByte('(')
	b.WriteString(strings.Join(params, ", "))
	b.WriteByte(')')

	if fn.Ret != nil {
		b.WriteString(" -> ")
		b.WriteString(fn.Ret.Text)
	}
	b.WriteString(whereClause(fn.Where))
	return b.String()
}

// Write writes the trait to w.
func (tr *TraitDecl) Write(w *codefmt.Writer) {
	for _, attr := range tr.Attrs {
		w.Printf("%s\n", attr)
	}

	vis := ""
	if tr.Vis != "" {
		vis = tr.Vis + " "
	}
	w.Printf("%strait %s%s%s {\n", vis, tr.Name, tr.Generics.Code(), whereClause(tr.Where))
	for _, m := range tr.Methods {
		m.Write(w.WithIndent(IndentUnit))
	}
	w.Printf("}\n")
}

// Write writes the implementation to w.
func (im *ImplDecl) Write(w *codefmt.Writer) {
	w.Printf("impl%s %s%s for %s%s {\n", im.Generics.Code(), im.Trait, im.TraitArgs, im.SelfType.Text, whereClause(im.Where))
	for _, m := range im.Methods {
		m.write(w.WithIndent(IndentUnit), IndentUnit)
	}
	w.Printf("}\n")
}

// indentLines prefixes every line of s but the first. Blank lines are left
// empty.
//
//	indentLines("{\n    x\n}", "    ") => "{\n        x\n    }"
func indentLines(s, prefix string) string {
	if prefix == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func whereClause(preds []Predicate) string {
	if len(preds) == 0 {
		return ""
	}
	texts := make([]string, len(preds))
	for i, p := range preds {
		texts[i] = p.Text
	}
	return " where " + strings.Join(texts, ", ")
}
