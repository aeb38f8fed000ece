package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"extend": run,
	}))
}

// TestScripts runs the scripts in testdata/script. Each script runs the extend
// command in a fresh directory with the files of its archive.
func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}

func TestColorize(t *testing.T) {
	got := colorize("lib.rs:2:6: indicate the type of self, e.g. `self: Type`")
	assert.Equal(t, "\033[1mlib.rs:2:6:\033[0m indicate the type of self, e.g. \033[31m`self: Type`\033[0m", got)

	assert.Equal(t, "no such file", colorize("no such file"))
}

func TestColorEnabled(t *testing.T) {
	assert.True(t, colorEnabled("always"))
	assert.False(t, colorEnabled("never"))
}
