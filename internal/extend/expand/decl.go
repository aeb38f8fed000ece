// Package expand turns a function with a "self: Type" first parameter into an
// extension method. For
//
//	pub fn pos2<T>(mut self: usize, N { x, y, z }: N<T>) -> Option<T> { ... }
//
// it synthesizes three declarations:
//
//	pub fn pos2<T>(this: usize, n: N<T>) -> Option<T> {
//	    pos2::pos2(this, n)
//	}
//	#[allow(non_camel_case_types)]
//	pub trait pos2<T> where Self: Sized {
//	    fn pos2(self, n: N<T>) -> Option<T>;
//	}
//	impl<T> pos2<T> for usize where Self: Sized {
//	    fn pos2(mut self, N { x, y, z }: N<T>) -> Option<T> { ... }
//	}
//
// The wrapper keeps the function callable by its name. The trait and its
// blanket implementation make it callable with method syntax.
package expand

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/Kolsky/extend/internal/codefmt"
	"github.com/Kolsky/extend/internal/syntax"
	"github.com/Kolsky/extend/pkg/exterrors"
)

// receiverName is the name of the receiver parameter of the wrapper function.
const receiverName = "this"

// sizedPredicate is injected into the trait and the implementation because the
// method takes self by value.
const sizedPredicate = "Self: Sized"

// traitAttr silences the naming lint on the trait named after the function.
const traitAttr = "#[allow(non_camel_case_types)]"

// DeclSet is the expansion of a function.
type DeclSet struct {
	Wrapper *syntax.FnDecl
	Trait   *syntax.TraitDecl
	Impl    *syntax.ImplDecl
}

// Write writes the wrapper, the trait and the implementation in order.
func (ds *DeclSet) Write(w *codefmt.Writer) {
	ds.Wrapper.Write(w)
	ds.Trait.Write(w)
	ds.Impl.Write(w)
}

// Synthesize builds the expansion of fn. It fails on the first invalid part
// of the signature and never returns a partial result.
func Synthesize(f codefmt.Formatter, fn *syntax.Function) (*DeclSet, error) {
	recv, err := ExtractReceiver(f, fn)
	if err != nil {
		return nil, err
	}

	args, err := Normalize(f, fn.Params[1:])
	if err != nil {
		return nil, err
	}

	quals, err := methodQuals(f, fn)
	if err != nil {
		return nil, err
	}

	ns := codefmt.NewNS()
	for _, arg := range args {
		ns.Reserve(arg.Sig.Name)
	}
	this := ns.Name(receiverName)

	name := fn.Name.Name
	ret := fn.Ret
	where := withSized(fn.Where)

	sigParams := make([]syntax.ParamDecl, len(args))
	keepParams := make([]syntax.ParamDecl, len(args))
	names := make([]string, len(args))
	for i, arg := range args {
		sigParams[i] = syntax.ParamDecl{Pat: arg.Sig, Type: arg.Type}
		keepParams[i] = syntax.ParamDecl{Pat: arg.Keep, Type: arg.Type}
		names[i] = arg.Sig.Name
	}

	wrapperParams := make([]syntax.ParamDecl, 0, len(args)+1)
	wrapperParams = append(wrapperParams, syntax.ParamDecl{
		Pat:  &syntax.IdentPat{Name: this},
		Type: &recv.Type,
	})
	wrapperParams = append(wrapperParams, sigParams...)

	wrapper := &syntax.FnDecl{
		Attrs:    fn.Attrs,
		Vis:      fn.Vis,
		Quals:    quals,
		Name:     name,
		Generics: fn.Generics,
		Params:   wrapperParams,
		Ret:      ret,
		Where:    fn.Where,
		Expr:     delegateExpr(fn, this, names),
	}

	trait := &syntax.TraitDecl{
		Attrs:    []string{traitAttr},
		Vis:      fn.Vis,
		Name:     name,
		Generics: fn.Generics,
		Where:    where,
		Methods: []*syntax.FnDecl{{
			Quals:  quals,
			Name:   name,
			Self:   &syntax.SelfArg{},
			Params: sigParams,
			Ret:    ret,
		}},
	}

	body := fn.Body
	impl := &syntax.ImplDecl{
		Generics:  fn.Generics,
		Trait:     name,
		TraitArgs: fn.Generics.Args(),
		SelfType:  &recv.Type,
		Where:     where,
		Methods: []*syntax.FnDecl{{
			Quals:  quals,
			Name:   name,
			Self:   &syntax.SelfArg{Mut: recv.Mut},
			Params: keepParams,
			Ret:    ret,
			Body:   &body,
		}},
	}

	return &DeclSet{Wrapper: wrapper, Trait: trait, Impl: impl}, nil
}

// methodQuals returns the qualifiers of fn which are allowed on a trait
// method.
func methodQuals(f codefmt.Formatter, fn *syntax.Function) ([]string, error) {
	quals := make([]string, 0, len(fn.Quals))
	for _, q := range fn.Quals {
		switch q.Text {
		case "async", "unsafe":
			quals = append(quals, q.Text)
		default:
			// const, extern "ABI" and default
			return nil, f.Failf(exterrors.UnsupportedQualifier, q, "`%c` qualifier cannot be used on an extension method", q)
		}
	}
	return quals, nil
}

// delegateExpr returns the body of the wrapper function which calls the trait
// method with the receiver. The call is qualified by the trait so that an
// inherent method of the same name on the receiver type is not picked.
//
//	pos2::pos2(this, n)
func delegateExpr(fn *syntax.Function, this string, names []string) string {
	args := append([]string{this}, names...)
	expr := fmt.Sprintf("%s::%s(%s)", fn.Name.Name, fn.Name.Name, strings.Join(args, ", "))
	if _, ok := fn.Qual("async"); ok {
		expr += ".await"
	}
	if _, ok := fn.Qual("unsafe"); ok {
		expr = "unsafe { " + expr + " }"
	}
	return expr
}

// withSized returns the where-clause of the trait and the implementation. The
// predicates keep their order and source text, and "Self: Sized" is appended
// unless it is already present. Predicates are compared with whitespace
// collapsed.
func withSized(preds []syntax.Predicate) []syntax.Predicate {
	m := linkedhashmap.New()
	add := func(p syntax.Predicate) {
		key := strings.Join(strings.Fields(p.Text), " ")
		if _, found := m.Get(key); !found {
			m.Put(key, p)
		}
	}
	for _, p := range preds {
		add(p)
	}
	add(syntax.Predicate{Text: sizedPredicate})

	where := make([]syntax.Predicate, 0, m.Size())
	for _, v := range m.Values() {
		where = append(where, v.(syntax.Predicate))
	}
	return where
}
