package codefmt

import (
	"bytes"
	"go/token"
	"io"
)

// Writer is a writer for generated Rust code. Every line written through
// [Writer.Write] or [Writer.Printf] starts with the indentation of the writer.
// [Writer.Verbatim] bypasses the indentation for text copied from the user's
// source, which already carries its own.
type Writer struct {
	w      io.Writer
	fmt    Formatter
	indent string
	st     *writerState
}

// writerState is shared by writers derived with [Writer.WithIndent] so that
// they agree on whether the output is at the beginning of a line.
type writerState struct {
	bol bool
}

// NewWriter creates a new [Writer]. The output is assumed to start at the
// beginning of a line.
func NewWriter(w io.Writer, fset *token.FileSet) *Writer {
	return &Writer{
		w:   w,
		fmt: New(fset),
		st:  &writerState{bol: true},
	}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	n := 0
	for len(p) != 0 {
		if w.st.bol && p[0] != '\n' {
			if _, err := io.WriteString(w.w, w.indent); err != nil {
				return n, err
			}
			w.st.bol = false
		}

		chunk := p
		i := bytes.IndexByte(p, '\n')
		if i >= 0 {
			chunk = p[:i+1]
		}

		m, err := w.w.Write(chunk)
		n += m
		if err != nil {
			return n, err
		}
		if i >= 0 {
			w.st.bol = true
		}
		p = p[len(chunk):]
	}
	return n, nil
}

// Printf writes a formatted string to the underlying writer using
// [Formatter.Fprintf].
func (w *Writer) Printf(format string, args ...any) (int, error) {
	return w.fmt.Fprintf(w, format, args...)
}

// Verbatim writes s as is. The indentation is written only if the output is
// at the beginning of a line; lines inside s are not indented.
func (w *Writer) Verbatim(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if w.st.bol {
		if _, err := io.WriteString(w.w, w.indent); err != nil {
			return 0, err
		}
	}
	n, err := io.WriteString(w.w, s)
	w.st.bol = s[len(s)-1] == '\n'
	return n, err
}

// WithIndent copies the writer and appends prefix to its indentation.
func (w *Writer) WithIndent(prefix string) *Writer {
	return &Writer{
		w:      w.w,
		fmt:    w.fmt,
		indent: w.indent + prefix,
		st:     w.st,
	}
}
