package parse

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/Kolsky/extend/internal/codefmt"
	"github.com/Kolsky/extend/internal/syntax"
	"github.com/Kolsky/extend/pkg/exterrors"
)

// DefaultAttributes are the attribute paths which mark a function for
// expansion.
var DefaultAttributes = []string{"ext", "extend::ext"}

// Parser parses a Rust source file to collect functions marked for expansion.
type Parser struct {
	fset  *token.FileSet
	file  *token.File
	src   []byte
	attrs []string
}

func (p *Parser) Fset() *token.FileSet { return p.fset }

// Src returns the source code of the file.
func (p *Parser) Src() []byte { return p.src }

// File returns the file of the source code in the file set.
func (p *Parser) File() *token.File { return p.file }

// New creates a new [Parser] for the given source. The file is added to fset.
// attrs are the attribute paths marking functions for expansion, such as "ext"
// for #[ext]. If attrs is empty, [DefaultAttributes] is used.
func New(fset *token.FileSet, filename string, src []byte, attrs []string) (*Parser, error) {
	if fset == nil {
		return nil, fmt.Errorf("need file set")
	}
	if filename == "" {
		return nil, fmt.Errorf("need file name")
	}
	if len(attrs) == 0 {
		attrs = DefaultAttributes
	}

	file := fset.AddFile(filename, -1, len(src))
	file.SetLinesForContent(src)

	normalized := make([]string, len(attrs))
	for i, attr := range attrs {
		normalized[i] = normalizePath(attr)
	}

	return &Parser{fset: fset, file: file, src: src, attrs: normalized}, nil
}

// Item is a function marked for expansion.
type Item struct {
	syntax.Span

	// Indent is the leading whitespace of the line where the item starts.
	Indent string

	Fn *syntax.Function
}

// Code returns the source code of the item.
func (it *Item) Code() string { return it.Fn.Code() }

// ParseItems parses the file and returns the marked functions in source order.
// Functions are searched at the top level of the file and in inline modules.
// It collects errors of all items instead of stopping at the first error.
func (p *Parser) ParseItems(ctx context.Context) ([]*Item, error) {
	tree, err := p.parseTree(ctx)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if errNode := findError(root); errNode != nil {
		return nil, codefmt.Failf(p, exterrors.SyntaxError, p.span(errNode), "syntax error")
	}

	var items []*Item
	var errs []error
	p.walkItems(root, func(attr, first, fnNode *sitter.Node) {
		item, err := p.parseItem(attr, first, fnNode)
		if err != nil {
			errs = append(errs, err)
			return
		}
		items = append(items, item)
	}, func(node *sitter.Node) {
		errs = append(errs, codefmt.Failf(p, exterrors.SyntaxError, p.span(node), "expected a function item, found %s", describeItem(node.Type())))
	})
	if len(errs) != 0 {
		return nil, errors.Join(errs...)
	}
	return items, nil
}

// ParseFunction parses a source which consists of exactly one function item,
// optionally preceded by attributes. The function does not need to be marked
// for expansion. The marking attribute is dropped if present.
func (p *Parser) ParseFunction(ctx context.Context) (*Item, error) {
	tree, err := p.parseTree(ctx)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	var fnNode, first, attr *sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "attribute_item", "line_comment", "block_comment":
			if first == nil {
				first = child
			}
			if attr == nil && child.Type() == "attribute_item" && p.isMarker(child) {
				attr = child
			}
		case "function_item":
			if fnNode != nil {
				return nil, codefmt.Failf(p, exterrors.SyntaxError, p.span(child), "expected exactly one function item")
			}
			fnNode = child
		case "ERROR":
			return nil, codefmt.Failf(p, exterrors.SyntaxError, p.span(child), "syntax error")
		default:
			return nil, codefmt.Failf(p, exterrors.SyntaxError, p.span(child), "expected a function item")
		}
	}
	if fnNode == nil {
		if errNode := findError(root); errNode != nil {
			return nil, codefmt.Failf(p, exterrors.SyntaxError, p.span(errNode), "syntax error")
		}
		return nil, codefmt.Failf(p, exterrors.SyntaxError, codefmt.Pos(p.file.Pos(0)), "expected a function item")
	}
	if first == nil {
		first = fnNode
	}
	return p.parseItem(attr, first, fnNode)
}

func (p *Parser) parseTree(ctx context.Context) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, p.src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.file.Name(), err)
	}
	return tree, nil
}

// walkItems calls yield for every function item marked with an expansion
// attribute in the container node. first is the first attribute preceding the
// function; the item replaces the source from first to the end of the
// function. reject is called for any other item marked with an expansion
// attribute.
func (p *Parser) walkItems(container *sitter.Node, yield func(attr, first, fn *sitter.Node), reject func(item *sitter.Node)) {
	var first, attr *sitter.Node
	reset := func() { first, attr = nil, nil }

	for i := 0; i < int(container.NamedChildCount()); i++ {
		child := container.NamedChild(i)
		switch child.Type() {
		case "attribute_item":
			if first == nil {
				first = child
			}
			if attr == nil && p.isMarker(child) {
				attr = child
			}

		case "line_comment", "block_comment":
			// Doc comments may be interleaved with attributes.

		case "function_item":
			if attr != nil {
				yield(attr, first, child)
			}
			reset()

		case "mod_item":
			if attr != nil {
				reject(child)
			}
			if body := child.ChildByFieldName("body"); body != nil {
				p.walkItems(body, yield, reject)
			}
			reset()

		default:
			if attr != nil {
				reject(child)
			}
			reset()
		}
	}
}

// isMarker reports whether the attribute item is one of the expansion
// attributes, such as #[ext] or #[extend::ext()].
func (p *Parser) isMarker(attrItem *sitter.Node) bool {
	for i := 0; i < int(attrItem.NamedChildCount()); i++ {
		attr := attrItem.NamedChild(i)
		if (attr.Type() != "attribute" && attr.Type() != "meta_item") || attr.NamedChildCount() == 0 {
			continue
		}
		path := normalizePath(p.text(attr.NamedChild(0)))
		return slices.Contains(p.attrs, path)
	}
	return false
}

// parseItem converts a marked function into an [Item].
func (p *Parser) parseItem(attr, first, fnNode *sitter.Node) (*Item, error) {
	fn, err := p.parseFunction(fnNode)
	if err != nil {
		return nil, err
	}

	item := &Item{
		Span:   syntax.Span{From: p.pos(first.StartByte()), To: p.pos(fnNode.EndByte())},
		Indent: p.indentAt(first.StartByte()),
		Fn:     fn,
	}
	// Keep the other attributes and comments between the first attribute and
	// the function. They are moved to the wrapper function.
	for n := first; n != nil && n.StartByte() < fnNode.StartByte(); n = n.NextNamedSibling() {
		if attr != nil && n.StartByte() == attr.StartByte() {
			continue
		}
		fn.Attrs = append(fn.Attrs, p.textNode(n))
	}
	return item, nil
}

func (p *Parser) pos(offset uint32) token.Pos {
	return p.file.Pos(int(offset))
}

func (p *Parser) span(n *sitter.Node) syntax.Span {
	return syntax.Span{From: p.pos(n.StartByte()), To: p.pos(n.EndByte())}
}

func (p *Parser) text(n *sitter.Node) string {
	return string(p.src[n.StartByte():n.EndByte()])
}

func (p *Parser) textNode(n *sitter.Node) syntax.Text {
	return syntax.Text{Span: p.span(n), Text: strings.TrimRight(p.text(n), " \t\r\n")}
}

// indentAt returns the leading whitespace of the line containing offset.
func (p *Parser) indentAt(offset uint32) string {
	start := int(offset)
	for start > 0 && p.src[start-1] != '\n' {
		start--
	}
	end := start
	for end < len(p.src) && (p.src[end] == ' ' || p.src[end] == '\t') {
		end++
	}
	return string(p.src[start:end])
}

// describeItem returns a readable name of an item node type.
//
//	"struct_item"             => "struct"
//	"function_signature_item" => "function signature"
func describeItem(typ string) string {
	typ = strings.TrimSuffix(typ, "_item")
	return strings.ReplaceAll(typ, "_", " ")
}

// normalizePath removes whitespace and a leading "::" from an attribute path.
func normalizePath(path string) string {
	path = strings.Join(strings.Fields(path), "")
	return strings.TrimPrefix(path, "::")
}

// findError returns the first syntax error node in n, or nil.
func findError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if errNode := findError(n.Child(i)); errNode != nil {
			return errNode
		}
	}
	return n
}
