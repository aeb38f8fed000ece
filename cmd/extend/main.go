package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sys/unix"

	extendinternal "github.com/Kolsky/extend/internal/extend"
)

var Version = "dev"

func init() {
	extendinternal.Version = Version
}

// defaultConfig is loaded from the working directory if --config is not given.
const defaultConfig = "extend.yaml"

type flags struct {
	write   bool
	list    bool
	color   string
	verbose bool
	config  string
}

func main() {
	os.Exit(run())
}

// run runs the command with the process arguments and returns the exit code.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "extend [flags] [paths...]",
		Short: "Rewrite #[ext] Rust functions into extension methods",
		Long: `extend finds Rust functions marked with #[ext] and replaces each of them with
a wrapper function, a trait named after the function and an implementation of
the trait for the type of the "self: Type" parameter.

Paths are .rs files, directories, or directories with a "/..." suffix to
search recursively. The default path is the working directory. Expanded files
are printed to stdout unless -w or -l is given.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runExtend(cmd.Context(), f, args, stdout, stderr)
			if err != nil {
				message := err.Error()
				if colorEnabled(f.color) {
					message = colorize(message)
				}
				fmt.Fprintln(stderr, message)
			}
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fs := cmd.Flags()
	fs.BoolVarP(&f.write, "write", "w", false, "write the expansion to the source files")
	fs.BoolVarP(&f.list, "list", "l", false, "list files whose expansion differs from the source")
	fs.StringVarP(&f.color, "color", "c", "auto", "colorize diagnostics (auto|always|never)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	fs.StringVar(&f.config, "config", "", "config file (default \""+defaultConfig+"\" if present)")
	return cmd
}

func runExtend(ctx context.Context, f flags, args []string, stdout, stderr io.Writer) error {
	switch f.color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid -c value: %s", f.color)
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(wd, f.config)
	if err != nil {
		return err
	}

	logger := newLogger(f.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	outs, err := extendinternal.Main(ctx, wd, cfg, logger, args)
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(outs))
	for path := range outs {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	for _, path := range paths {
		code := outs[path]

		if f.list {
			fmt.Fprintln(stdout, path)
		}
		if f.write {
			dst := path
			if !filepath.IsAbs(dst) {
				dst = filepath.Join(wd, dst)
			}
			if err := os.WriteFile(dst, code, 0o644); err != nil {
				return err
			}
			if !f.list {
				fmt.Fprintln(stdout, "Expanded:", path)
			}
		}
		if !f.list && !f.write {
			if _, err := stdout.Write(code); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadConfig loads the config file given by --config, or the default config
// file in wd if it exists.
func loadConfig(wd, path string) (extendinternal.Config, error) {
	if path != "" {
		return extendinternal.LoadConfig(path)
	}

	cfg, err := extendinternal.LoadConfig(filepath.Join(wd, defaultConfig))
	if errors.Is(err, os.ErrNotExist) {
		return extendinternal.Config{}, nil
	}
	return cfg, err
}

// newLogger creates a JSON logger writing to stderr. Only warnings are logged
// unless verbose.
func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	sink := zapcore.AddSync(stderr)
	core := zapcore.NewCore(zapcore.NewJSONEncoder(config.EncoderConfig), sink, config.Level)
	return zap.New(core, zap.ErrorOutput(sink))
}

func colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "auto":
		return isatty()
	default:
		return false
	}
}

// isatty reports whether the program is running in a terminal. If it is true,
// we can use ANSI color codes.
func isatty() bool {
	_, err := unix.IoctlGetWinsize(int(os.Stderr.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

var (
	rePos  = regexp.MustCompile(`(?m)^[^\s:]+:\d+:\d+:`)
	reCode = regexp.MustCompile("`[^`]+`")
)

// colorize adds ANSI color codes to the message.
func colorize(message string) string {
	const (
		bold  = "\033[1m"
		red   = "\033[31m"
		reset = "\033[0m"
	)
	m := []byte(message)
	m = rePos.ReplaceAllFunc(m, func(b []byte) []byte {
		return []byte(bold + string(b) + reset)
	})
	m = reCode.ReplaceAllFunc(m, func(b []byte) []byte {
		return []byte(red + string(b) + reset)
	})
	return string(m)
}
