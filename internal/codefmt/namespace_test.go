package codefmt

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisambiguate(t *testing.T) {
	pull, stop := iter.Pull(DisambiguateName("example"))
	defer stop()

	var name string
	var more bool

	name, more = pull()
	assert.Equal(t, "example", name)
	assert.True(t, more)

	name, more = pull()
	assert.Equal(t, "example2", name)
	assert.True(t, more)

	name, more = pull()
	assert.Equal(t, "example3", name)
	assert.True(t, more)
}

func TestDisambiguateNumSuffix(t *testing.T) {
	pull, stop := iter.Pull(DisambiguateName("answer42"))
	defer stop()

	var name string
	var more bool

	name, more = pull()
	assert.Equal(t, "answer42", name)
	assert.True(t, more)

	name, more = pull()
	assert.Equal(t, "answer42_2", name)
	assert.True(t, more)
}

func TestNSName(t *testing.T) {
	ns := NewNS("this", "other")
	assert.Equal(t, "this2", ns.Name("this"))
	assert.Equal(t, "this3", ns.Name("this"))
	assert.Equal(t, "fresh", ns.Name("fresh"))
	assert.True(t, ns.Has("fresh"))
	assert.False(t, ns.Reserve("other"))
}

func TestNSNameKeyword(t *testing.T) {
	ns := NewNS()
	assert.Panics(t, func() { ns.Name("fn") })
	assert.Panics(t, func() { ns.Name("") })
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, IsKeyword("self"))
	assert.True(t, IsKeyword("Self"))
	assert.True(t, IsKeyword("async"))
	assert.False(t, IsKeyword("this"))
	assert.False(t, IsKeyword("x"))
}

func TestIsIdent(t *testing.T) {
	for _, name := range []string{"x", "_x", "x1", "snake_case", "été"} {
		assert.True(t, IsIdent(name), name)
	}
	for _, name := range []string{"", "_", "1", "1x", "fn", "self", "a-b", "r#x"} {
		assert.False(t, IsIdent(name), name)
	}
}
