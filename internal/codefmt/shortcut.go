package codefmt

import "go/token"

// Failf is a shorthand for [Formatter.Failf].
func Failf(fsetter Fsetter, kind error, poser Poser, format string, args ...any) error {
	return newByFsetter(fsetter).Failf(kind, poser, format, args...)
}

type poser struct{ pos token.Pos }

func (p poser) Pos() token.Pos { return p.pos }
func Pos(pos token.Pos) Poser  { return poser{pos} }
