package extendinternal

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Version is the version of the command-line tool. It is reported in debug
// logs.
var Version string

// Main is the main entry point for extend. It is used by the command-line tool
// directly.
//
// ctx is the context for reading and parsing files. wd is the path of the
// working directory which relative patterns and output paths are resolved
// against. cfg configures the expansion. logger receives debug events; nil
// disables logging. patterns are file paths, directory paths, or directory
// paths with a "/..." suffix for recursion. No pattern means ".".
//
// It returns a map of file paths to their expanded contents. Only files which
// contain marked functions are in the map. If any error occurs, it returns a
// non-nil error with the errors of all files.
func Main(ctx context.Context, wd string, cfg Config, logger *zap.Logger, patterns []string) (map[string][]byte, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := resolve(wd, patterns)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved files",
		zap.String("version", Version),
		zap.Strings("patterns", patterns),
		zap.Int("files", len(files)),
	)

	fset := token.NewFileSet()
	outs := make(map[string][]byte)
	errs := make([]error, len(files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			code, n, err := expandFile(ctx, fset, wd, file, cfg)
			if err != nil {
				errs[i] = err
				return nil
			}
			logger.Debug("expanded file",
				zap.String("file", file),
				zap.Int("items", n),
				zap.Duration("elapsed", time.Since(start)),
			)
			if n == 0 {
				return nil
			}

			mu.Lock()
			outs[file] = code
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if errs := errors.Join(errs...); errs != nil {
		// errs already contains comprehensive error messages. So we don't need
		// to attach another error message.
		return nil, reorderErrors(errs)
	}
	return outs, nil
}

// expandFile expands a file and returns the new content and the number of
// expanded functions.
func expandFile(ctx context.Context, fset *token.FileSet, wd, file string, cfg Config) ([]byte, int, error) {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(wd, path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	ex, err := New(fset, file, src, cfg)
	if err != nil {
		return nil, 0, err
	}
	if err := ex.Build(ctx); err != nil {
		return nil, 0, err
	}
	return ex.Generate(), ex.Len(), nil
}

// resolve returns the Rust source files matched by the patterns. Paths are
// relative to wd if possible. Each file appears once, in the order of the
// patterns.
func resolve(wd string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	set := linkedhashset.New()
	for _, pattern := range patterns {
		recursive := false
		if pattern == "..." || strings.HasSuffix(pattern, "/...") {
			recursive = true
			pattern = strings.TrimSuffix(pattern, "...")
			if pattern == "" {
				pattern = "."
			}
		}

		path := pattern
		if !filepath.IsAbs(path) {
			path = filepath.Join(wd, path)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if recursive {
				return nil, fmt.Errorf("%s: not a directory", pattern)
			}
			set.Add(relPath(wd, path))
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p == path {
					return nil
				}
				if !recursive || skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(p) == ".rs" {
				set.Add(relPath(wd, p))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if set.Empty() {
		return nil, fmt.Errorf("no Rust files found: %v", patterns)
	}

	files := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		files = append(files, v.(string))
	}
	return files, nil
}

// skipDir reports whether a directory is skipped in recursion. Hidden
// directories and the Cargo build directory never contain sources to expand.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "target"
}

func relPath(wd, path string) string {
	if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func reorderErrors(errs error) error {
	if errs == nil {
		return nil
	}

	// Flatten nested errors
	list := []error{errs}
	for i := 0; i < len(list); i++ {
		if u, ok := list[i].(interface{ Unwrap() []error }); ok {
			// errors.Join collapses errors with a single error having Unwrap()
			// []error method. The underlying errors could be retrieved using
			// the Unwrap() method.
			list = append(list, u.Unwrap()...)

			// The underlying errors are appended to the list. So the original
			// error can be removed.
			list[i] = nil
			continue
		}
	}
	list = slices.DeleteFunc(list, func(err error) bool {
		return err == nil
	})

	// Sort errors by message
	sort.Slice(list, func(i, j int) bool {
		return list[i].Error() < list[j].Error()
	})
	return errors.Join(list...)
}
