package extendinternal

import (
	"bytes"
	"context"
	"errors"
	"go/token"
	"strings"

	"github.com/Kolsky/extend/internal/codefmt"
	"github.com/Kolsky/extend/internal/extend/expand"
	"github.com/Kolsky/extend/internal/extend/parse"
)

// Extend expands the functions marked with an expansion attribute in a Rust
// source file. Call [Extend.Build] and then [Extend.Generate] to get the new
// source. All potential errors are returned by [Extend.Build]. Once
// [Extend.Build] succeeds, [Extend.Generate] never fails.
type Extend struct {
	p *parse.Parser
	f codefmt.Formatter

	items []*parse.Item
	decls []*expand.DeclSet
}

// New creates a new [Extend] for the given source file. The file is added to
// fset so that diagnostics can point at it.
func New(fset *token.FileSet, filename string, src []byte, cfg Config) (*Extend, error) {
	p, err := parse.New(fset, filename, src, cfg.Attributes)
	if err != nil {
		return nil, err
	}
	return &Extend{p: p, f: codefmt.New(fset)}, nil
}

// Build parses the file and synthesizes the declarations of every marked
// function. Errors of all functions are returned together. It must be called
// before [Extend.Generate].
func (ex *Extend) Build(ctx context.Context) error {
	items, err := ex.p.ParseItems(ctx)
	if err != nil {
		return err
	}

	var errs error
	decls := make([]*expand.DeclSet, 0, len(items))
	for _, item := range items {
		ds, err := expand.Synthesize(ex.f, item.Fn)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		decls = append(decls, ds)
	}
	if errs != nil {
		return errs
	}

	ex.items = items
	ex.decls = decls
	return nil
}

// Len returns the number of expanded functions. It is valid after
// [Extend.Build] succeeds.
func (ex *Extend) Len() int { return len(ex.items) }

// Generate returns the source file where every marked function, from its first
// attribute to its closing brace, is replaced with its expansion. The rest of
// the file is kept byte for byte. It must be called after [Extend.Build]
// succeeds.
func (ex *Extend) Generate() []byte {
	src := ex.p.Src()
	file := ex.p.File()

	var buf bytes.Buffer
	last := 0
	for i, item := range ex.items {
		from := file.Offset(item.Pos())
		to := file.Offset(item.End())

		buf.Write(src[last:from])
		buf.WriteString(ex.render(item, ex.decls[i]))
		last = to
	}
	buf.Write(src[last:])
	return buf.Bytes()
}

// render writes the declarations at the indentation of the item. The source
// already has the indentation of the first line before the item, so it is
// trimmed from the output.
func (ex *Extend) render(item *parse.Item, ds *expand.DeclSet) string {
	var buf bytes.Buffer
	w := codefmt.NewWriter(&buf, ex.p.Fset()).WithIndent(item.Indent)
	ds.Write(w)

	code := strings.TrimSuffix(buf.String(), "\n")
	return strings.TrimPrefix(code, item.Indent)
}

// ExpandItem expands the source of exactly one function item. The function
// does not need to be marked with an expansion attribute.
func ExpandItem(ctx context.Context, fset *token.FileSet, filename string, src []byte, cfg Config) ([]byte, error) {
	p, err := parse.New(fset, filename, src, cfg.Attributes)
	if err != nil {
		return nil, err
	}

	item, err := p.ParseFunction(ctx)
	if err != nil {
		return nil, err
	}

	ds, err := expand.Synthesize(codefmt.New(fset), item.Fn)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	ds.Write(codefmt.NewWriter(&buf, fset))
	return buf.Bytes(), nil
}
