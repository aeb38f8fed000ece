// Package extend rewrites Rust functions into extension methods.
//
// An extension method is a function which can be called with method syntax on
// a type the caller does not own. Mark a function whose first parameter is
// "self: Type" with #[ext]:
//
//	// source:
//	#[ext]
//	pub fn double(self: u32) -> u32 {
//	    self * 2
//	}
//
// Extend replaces it with a trait named after the function, a blanket
// implementation of the trait for the receiver type, and a wrapper function
// which keeps direct calls such as double(3) working:
//
//	// expanded:
//	pub fn double(this: u32) -> u32 {
//	    double::double(this)
//	}
//	#[allow(non_camel_case_types)]
//	pub trait double where Self: Sized {
//	    fn double(self) -> u32;
//	}
//	impl double for u32 where Self: Sized {
//	    fn double(self) -> u32 {
//	        self * 2
//	    }
//	}
//
// After the expansion, 3.double() calls the function as a method.
//
// # Parameters
//
// The trait method declares every parameter by name only, so each parameter
// must have a name at its top level. A destructuring pattern can be named with
// an @-binding. A name with the "_" prefix is used in the trait, but dropped in
// the implementation where only the destructured parts are used:
//
//	// source:
//	#[ext]
//	fn dist(self: Point, _other @ Point { x, y }: Point) -> f64 { ... }
//
//	// expanded: (trait and implementation methods)
//	fn dist(self, other: Point) -> f64;
//	fn dist(self, Point { x, y }: Point) -> f64 { ... }
//
// # Errors
//
// Functions which cannot become an extension method are reported with their
// position, for example:
//
//	lib.rs:2:10: indicate the type of self, e.g. `self: Type`
//
// The kind of an error is one of the sentinel errors in
// [github.com/Kolsky/extend/pkg/exterrors] and can be tested with
// [errors.Is].
package extend

import (
	"context"
	"go/token"

	extendinternal "github.com/Kolsky/extend/internal/extend"
)

// Option configures an expansion.
type Option func(*options)

type options struct {
	ctx context.Context
	cfg extendinternal.Config
}

func newOptions(opts []Option) options {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithAttributes sets the paths of the attributes which mark functions for
// expansion, such as "ext" for #[ext]. The default is "ext" and
// "extend::ext".
func WithAttributes(names ...string) Option {
	return func(o *options) {
		o.cfg.Attributes = append([]string(nil), names...)
	}
}

// WithContext sets the context for parsing. Parsing stops when ctx is done.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

// ExpandItem expands the source of exactly one function item. The item may be
// preceded by attributes, and the expansion attribute is optional.
func ExpandItem(src []byte, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	return extendinternal.ExpandItem(o.ctx, token.NewFileSet(), "item.rs", src, o.cfg)
}

// ExpandFile expands every marked function in a Rust source file. filename is
// used in error messages. The rest of the file is kept as is, so a file without
// marked functions is returned unchanged.
func ExpandFile(filename string, src []byte, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	ex, err := extendinternal.New(token.NewFileSet(), filename, src, o.cfg)
	if err != nil {
		return nil, err
	}
	if err := ex.Build(o.ctx); err != nil {
		return nil, err
	}
	return ex.Generate(), nil
}
