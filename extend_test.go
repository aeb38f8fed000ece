package extend_test

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kolsky/extend"
	"github.com/Kolsky/extend/pkg/exterrors"
)

// TestPrograms tests programs in the testdata directory.
//
// The directory structure of testdata for subtests is as follows:
//
//	testdata/
//	└── program/
//	    ├── program1/
//	    │   ├── main.rs
//	    │   └── want/
//	    │       ├── expanded.rs --- optional, the exact expansion of main.rs
//	    │       └── program_output.txt
//	    └── program2/
//	        ├── main.rs
//	        └── want/
//	            └── extend_error.txt
//
// The expanded programs are compiled and run only if EXTEND_TEST_RUSTC=1 and
// rustc is found in PATH.
func TestPrograms(t *testing.T) {
	ents, err := os.ReadDir(filepath.FromSlash("testdata/program"))
	require.NoError(t, err)

	var tests []*programTest
	for _, ent := range ents {
		name := ent.Name()
		if !ent.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}

		test, err := newProgramTest(name)
		if err != nil {
			t.Error(err)
			continue
		}

		tests = append(tests, test)
	}

	for _, test := range tests {
		t.Run(test.name, test.Test())
	}
}

// programTest is a test case for a program. It expands the program and checks
// the expansion, or runs the expanded program to check its output.
type programTest struct {
	name string
	src  []byte
	want struct {
		Expanded      string
		ProgramOutput string
		ExtendError   string
	}
}

// newProgramTest creates a new program test case.
func newProgramTest(name string) (*programTest, error) {
	root := filepath.Join(filepath.FromSlash("testdata/program"), name)
	test := programTest{name: name}

	src, err := os.ReadFile(filepath.Join(root, "main.rs"))
	if err != nil {
		return nil, fmt.Errorf("load test case %s: %v", name, err)
	}
	test.src = src

	// want
	expanded, err := os.ReadFile(filepath.Join(root, "want", "expanded.rs"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load test case %s: %v", name, err)
	}
	programOutput, _ := os.ReadFile(filepath.Join(root, "want", "program_output.txt"))
	extendError, _ := os.ReadFile(filepath.Join(root, "want", "extend_error.txt"))
	test.want.Expanded = string(expanded)
	test.want.ProgramOutput = strings.TrimSpace(string(programOutput))
	test.want.ExtendError = strings.TrimSpace(string(extendError))

	if test.want.ProgramOutput == "" && test.want.ExtendError == "" {
		return nil, fmt.Errorf("load test case %s: does not want anything", name)
	}
	return &test, nil
}

// Test returns a test function for the program test. It runs extend for the
// program and then checks its error, its expansion, or its output.
func (test *programTest) Test() func(*testing.T) {
	return func(t *testing.T) {
		t.Parallel()

		defer func() {
			if t.Failed() {
				t.Logf("\n\tReproduce:\tgo run ./cmd/extend ./testdata/program/%s/main.rs", test.name)
			}
		}()

		expanded, extendErr := extend.ExpandFile("main.rs", test.src)

		// Check for the extend error
		if test.want.ExtendError != "" {
			require.Error(t, extendErr, "extend should have exited with an error")
			assert.Equal(t, test.want.ExtendError, extendErr.Error())
			assert.NotNil(t, exterrors.KindOf(extendErr))
			return
		}
		require.NoError(t, extendErr, "extend exited with errors unexpectedly")

		if test.want.Expanded != "" {
			assert.Equal(t, test.want.Expanded, string(expanded))
		}

		if os.Getenv("EXTEND_TEST_RUSTC") != "1" {
			return
		}
		rustc, err := exec.LookPath("rustc")
		if err != nil {
			t.Skip("rustc not found")
		}

		// Compile and run the expanded program
		dir := t.TempDir()
		mainRs := filepath.Join(dir, "main.rs")
		require.NoError(t, os.WriteFile(mainRs, expanded, 0o666))

		bin := filepath.Join(dir, "main")
		cmd := exec.Command(rustc, "--edition", "2021", "-A", "warnings", "-o", bin, mainRs)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))

		progOut, err := exec.Command(bin).CombinedOutput()
		require.NoError(t, err, string(progOut))
		assert.Equal(t, test.want.ProgramOutput, strings.TrimSpace(string(progOut)))
	}
}

func TestExpandItem(t *testing.T) {
	code, err := extend.ExpandItem([]byte(`#[ext]
pub fn double(self: u32) -> u32 {
    self * 2
}`))
	require.NoError(t, err)
	assert.Equal(t, `pub fn double(this: u32) -> u32 {
    double::double(this)
}
#[allow(non_camel_case_types)]
pub trait double where Self: Sized {
    fn double(self) -> u32;
}
impl double for u32 where Self: Sized {
    fn double(self) -> u32 {
        self * 2
    }
}
`, string(code))
}

func TestExpandItemError(t *testing.T) {
	_, err := extend.ExpandItem([]byte(`fn double(self) -> u32 { self * 2 }`))
	require.ErrorIs(t, err, exterrors.ImplicitReceiverNotAllowed)
	assert.EqualError(t, err, "item.rs:1:11: indicate the type of self, e.g. `self: Type`")
}

func TestExpandFileWithAttributes(t *testing.T) {
	src := []byte("#[ext]\nfn a(self: u8) {}\n")

	same, err := extend.ExpandFile("lib.rs", src, extend.WithAttributes("method"))
	require.NoError(t, err)
	assert.Equal(t, src, same)

	expanded, err := extend.ExpandFile("lib.rs", src, extend.WithAttributes("method", "ext"))
	require.NoError(t, err)
	assert.Contains(t, string(expanded), "impl a for u8 where Self: Sized {")
}

func TestExpandFileContext(t *testing.T) {
	src := []byte("fn main() {}\n")
	out, err := extend.ExpandFile("main.rs", src, extend.WithContext(t.Context()))
	require.NoError(t, err)
	assert.Equal(t, src, out)
}
