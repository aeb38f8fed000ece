package codefmt_test

import (
	"errors"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kolsky/extend/internal/codefmt"
)

type fsetter struct{}

func (fsetter) Fset() *token.FileSet {
	fset := token.NewFileSet()
	fset.AddFile("test.rs", -1, 100).SetLinesForContent([]byte("fn f() {}\nfn g() {}\n"))
	return fset
}

type poser struct{ pos int }

func (p poser) Pos() token.Pos { return token.Pos(p.pos) }

type code string

func (c code) Code() string { return string(c) }

var errKind = errors.New("kind")

type span struct{ pos, end token.Pos }

func (s span) Pos() token.Pos { return s.pos }
func (s span) End() token.Pos { return s.end }

func TestFailfNilNil(t *testing.T) {
	err := codefmt.Failf(nil, errKind, nil, "simple error")
	assert.Equal(t, "simple error", err.Error())
}

func TestFailfPos(t *testing.T) {
	err := codefmt.Failf(fsetter{}, errKind, poser{1}, "error")
	assert.Equal(t, "test.rs:1:1: error", err.Error())
}

func TestFailfSecondLine(t *testing.T) {
	err := codefmt.Failf(fsetter{}, errKind, poser{14}, "error")
	assert.Equal(t, "test.rs:2:4: error", err.Error())
}

func TestFailfShortcutPos(t *testing.T) {
	err := codefmt.Failf(fsetter{}, errKind, codefmt.Pos(14), "error")
	assert.Equal(t, "test.rs:2:4: error", err.Error())
}

func TestFailfW(t *testing.T) {
	assert.Panics(t, func() {
		_ = codefmt.Failf(fsetter{}, errKind, poser{1}, "error: %w", assert.AnError)
	})
}

func TestFailfCode(t *testing.T) {
	err := codefmt.Failf(fsetter{}, errKind, poser{1}, "cannot use %c", code("(a,\n\tb)"))
	assert.Equal(t, "test.rs:1:1: cannot use (a, b)", err.Error())
}

func TestFailfSpan(t *testing.T) {
	err := codefmt.Failf(fsetter{}, errKind, span{3, 5}, "error")

	var codeErr *codefmt.CodeError
	if assert.ErrorAs(t, err, &codeErr) {
		assert.Equal(t, token.Pos(3), codeErr.Pos())
		assert.Equal(t, token.Pos(5), codeErr.End())
	}
}

func TestFailfKind(t *testing.T) {
	err := codefmt.Failf(fsetter{}, errKind, poser{1}, "error")
	assert.Equal(t, "test.rs:1:1: error", err.Error())
	assert.ErrorIs(t, err, errKind)
	assert.NotErrorIs(t, err, assert.AnError)
}

func TestFailfJoined(t *testing.T) {
	err := errors.Join(
		codefmt.Failf(fsetter{}, errKind, poser{1}, "first"),
		codefmt.Failf(fsetter{}, assert.AnError, poser{11}, "second"),
	)
	assert.ErrorIs(t, err, errKind)
	assert.ErrorIs(t, err, assert.AnError)
}
