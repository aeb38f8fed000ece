package parse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Kolsky/extend/internal/codefmt"
	"github.com/Kolsky/extend/internal/syntax"
	"github.com/Kolsky/extend/pkg/exterrors"
)

// parseFunction converts a function_item node into a [syntax.Function]. Only
// the signature is structured; the body is kept as verbatim text.
func (p *Parser) parseFunction(node *sitter.Node) (*syntax.Function, error) {
	if node.HasError() {
		errNode := findError(node)
		return nil, codefmt.Failf(p, exterrors.SyntaxError, p.span(errNode), "syntax error")
	}

	fn := &syntax.Function{Span: p.span(node)}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "visibility_modifier":
			fn.Vis = p.text(child)
		case "function_modifiers":
			for j := 0; j < int(child.ChildCount()); j++ {
				fn.Quals = append(fn.Quals, p.textNode(child.Child(j)))
			}
		case "where_clause":
			fn.Where = p.parseWhere(child)
		}
	}

	name := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	params := node.ChildByFieldName("parameters")
	if name == nil || body == nil || params == nil {
		return nil, codefmt.Failf(p, exterrors.SyntaxError, p.span(node), "incomplete function item")
	}
	fn.Name = syntax.Ident{Span: p.span(name), Name: p.text(name)}
	fn.Body = syntax.Block{Span: p.span(body), Text: p.textNode(body).Text, Literal: p.hasMultilineLiteral(body)}
	fn.Params = p.parseParams(params)

	if generics := node.ChildByFieldName("type_parameters"); generics != nil {
		fn.Generics = p.parseGenerics(generics)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		t := p.textNode(ret)
		fn.Ret = &t
	}
	return fn, nil
}

// parseParams converts the children of a parameters node. Parameters without
// a type annotation are kept as [syntax.UntypedParam] to be reported later by
// the expansion, which knows whether the parameter is the receiver.
func (p *Parser) parseParams(node *sitter.Node) []*syntax.Param {
	var params []*syntax.Param
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "(", ")", ",", "attribute_item", "line_comment", "block_comment":
			continue

		case "parameter":
			params = append(params, p.parseParam(child))

		case "self_parameter":
			params = append(params, &syntax.Param{
				Span: p.span(child),
				Kind: syntax.SelfParam,
				Text: p.text(child),
			})

		default:
			// "_", "..." and bare types such as "fn f(self: T, u32)".
			params = append(params, &syntax.Param{
				Span: p.span(child),
				Kind: syntax.UntypedParam,
				Text: p.text(child),
			})
		}
	}
	return params
}

func (p *Parser) parseParam(node *sitter.Node) *syntax.Param {
	param := &syntax.Param{
		Span: p.span(node),
		Kind: syntax.TypedParam,
		Text: p.text(node),
	}

	patNode := node.ChildByFieldName("pattern")
	typeNode := node.ChildByFieldName("type")
	if patNode == nil || typeNode == nil {
		param.Kind = syntax.UntypedParam
		return param
	}

	pat := p.parsePattern(patNode)

	// "mut x: T" may be parsed with the mutable specifier belonging to the
	// parameter instead of the pattern.
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.StartByte() >= patNode.StartByte() {
			break
		}
		if child.Type() == "mutable_specifier" {
			pat = p.withMut(pat, child.StartByte(), patNode.EndByte())
			break
		}
	}

	t := p.textNode(typeNode)
	param.Pat = pat
	param.Type = &t
	return param
}

// withMut applies a leading "mut" spanning [start, end) to a pattern.
func (p *Parser) withMut(pat syntax.Pattern, start, end uint32) syntax.Pattern {
	span := syntax.Span{From: p.pos(start), To: p.pos(end)}
	text := string(p.src[start:end])

	if id, ok := pat.(*syntax.IdentPat); ok {
		mut := *id
		mut.Span = span
		mut.Mut = true
		mut.Text = text
		return &mut
	}
	return &syntax.OtherPat{Span: span, Text: text}
}

// parsePattern converts a pattern node into the closed [syntax.Pattern] set.
func (p *Parser) parsePattern(node *sitter.Node) syntax.Pattern {
	span := p.span(node)
	text := p.text(node)

	switch node.Type() {
	case "identifier", "self":
		return &syntax.IdentPat{Span: span, Name: text, Text: text}

	case "mut_pattern":
		// mut x
		inner := lastNamedChild(node)
		if inner == nil {
			break
		}
		return p.withMut(p.parsePattern(inner), node.StartByte(), node.EndByte())

	case "ref_pattern":
		// ref x
		inner := lastNamedChild(node)
		if inner == nil {
			break
		}
		if id, ok := p.parsePattern(inner).(*syntax.IdentPat); ok {
			ref := *id
			ref.Span = span
			ref.ByRef = true
			ref.Text = text
			return &ref
		}

	case "captured_pattern":
		// x @ sub
		if node.NamedChildCount() < 2 {
			break
		}
		binding, ok := p.parsePattern(node.NamedChild(0)).(*syntax.IdentPat)
		if !ok || binding.Sub != nil {
			break
		}
		at := *binding
		at.Span = span
		at.Sub = p.parsePattern(lastNamedChild(node))
		at.Text = text
		return &at

	case "reference_pattern":
		// &x, &mut x
		inner := lastNamedChild(node)
		if inner == nil {
			break
		}
		mut := false
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if node.NamedChild(i).Type() == "mutable_specifier" {
				mut = true
			}
		}
		return &syntax.RefPat{Span: span, Mut: mut, Elem: p.parsePattern(inner), Text: text}
	}

	return &syntax.OtherPat{Span: span, Text: text}
}

// parseGenerics converts a type_parameters node. Default values are dropped;
// they are not allowed on function generics.
func (p *Parser) parseGenerics(node *sitter.Node) syntax.Generics {
	var gs syntax.Generics
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if g, ok := p.parseGeneric(node.NamedChild(i)); ok {
			gs = append(gs, g)
		}
	}
	return gs
}

func (p *Parser) parseGeneric(node *sitter.Node) (syntax.GenericParam, bool) {
	g := syntax.GenericParam{Span: p.span(node)}

	switch node.Type() {
	case "lifetime":
		g.Kind = syntax.LifetimeGeneric
		g.Name = p.text(node)

	case "type_identifier", "metavariable":
		g.Kind = syntax.TypeGeneric
		g.Name = p.text(node)

	case "lifetime_parameter", "type_parameter", "constrained_type_parameter":
		name := node.ChildByFieldName("name")
		if name == nil {
			name = node.ChildByFieldName("left")
		}
		if name == nil {
			return g, false
		}
		g.Kind = syntax.TypeGeneric
		if name.Type() == "lifetime" {
			g.Kind = syntax.LifetimeGeneric
		}
		g.Name = p.text(name)
		if bounds := node.ChildByFieldName("bounds"); bounds != nil {
			g.Bounds = trimBounds(p.text(bounds))
		}

	case "optional_type_parameter":
		name := node.ChildByFieldName("name")
		if name == nil {
			return g, false
		}
		inner, ok := p.parseGeneric(name)
		if !ok {
			return g, false
		}
		inner.Span = g.Span
		return inner, true

	case "const_parameter":
		name := node.ChildByFieldName("name")
		typ := node.ChildByFieldName("type")
		if name == nil || typ == nil {
			return g, false
		}
		g.Kind = syntax.ConstGeneric
		g.Name = p.text(name)
		g.Bounds = p.text(typ)

	default:
		// Attributes and comments inside the list.
		return g, false
	}
	return g, true
}

// parseWhere returns the predicates of a where_clause node.
func (p *Parser) parseWhere(node *sitter.Node) []syntax.Predicate {
	var preds []syntax.Predicate
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "where_predicate" {
			preds = append(preds, p.textNode(child))
		}
	}
	return preds
}

// trimBounds removes the leading colon of trait_bounds text.
//
//	": Add<Output = T> + Copy" => "Add<Output = T> + Copy"
func trimBounds(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ":")
	return strings.TrimSpace(s)
}

func lastNamedChild(n *sitter.Node) *sitter.Node {
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	return n.NamedChild(count - 1)
}

// hasMultilineLiteral reports whether a string literal under n spans lines.
// Literals inside macro invocations are found too.
func (p *Parser) hasMultilineLiteral(n *sitter.Node) bool {
	switch n.Type() {
	case "string_literal", "raw_string_literal":
		return strings.Contains(p.text(n), "\n")
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if p.hasMultilineLiteral(n.NamedChild(i)) {
			return true
		}
	}
	return false
}
