package runtime

import (
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/tzlang/pkg"
)

// ErrWrite reports a failure of the print native to write its output.
var ErrWrite = pkg.ErrRuntime.Sub("write output")

// Names of the constants every global environment defines.
const (
	NameNull  = "null"
	NameTrue  = "true"
	NameFalse = "false"
	NamePrint = "print"
)

type globalConfig struct {
	print   io.Writer
	globals map[string]Value
}

// GlobalOption configures the environment built by [NewGlobal].
type GlobalOption func(*globalConfig)

// WithPrint registers the print native, which writes the display form of
// its arguments to w separated by spaces and followed by a newline.
func WithPrint(w io.Writer) GlobalOption {
	return func(c *globalConfig) { c.print = w }
}

// WithGlobals defines additional variables in the global environment. The
// map is copied; later calls add to or replace earlier entries.
func WithGlobals(globals map[string]Value) GlobalOption {
	return func(c *globalConfig) {
		if c.globals == nil {
			c.globals = make(map[string]Value, len(globals))
		}

		maps.Copy(c.globals, globals)
	}
}

// NewGlobal returns an outermost environment with the constants null, true
// and false, plus whatever opts add. Extra globals are defined in name order
// and fail with [pkg.ErrAlreadyDefined] if they collide with a constant or
// the print native.
func NewGlobal(opts ...GlobalOption) (*Environment, error) {
	var cfg globalConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	env := NewEnvironment(nil)

	constants := []struct {
		name  string
		value Value
	}{
		{NameNull, Null{}},
		{NameTrue, Boolean(true)},
		{NameFalse, Boolean(false)},
	}

	for _, c := range constants {
		if err := env.DefineConstant(c.name, c.value); err != nil {
			return nil, err
		}
	}

	if cfg.print != nil {
		if err := env.DefineConstant(NamePrint, Print(cfg.print)); err != nil {
			return nil, err
		}
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.globals)) {
		if err := env.Define(name, cfg.globals[name]); err != nil {
			return nil, err
		}
	}

	return env, nil
}

// Print returns the print native bound to w.
func Print(w io.Writer) *NativeFunction {
	return &NativeFunction{
		Name: NamePrint,
		Fn: func(args []Value) (Value, error) {
			parts := make([]string, len(args))
			for i, arg := range args {
				parts[i] = Display(arg)
			}

			if _, err := io.WriteString(w, strings.Join(parts, " ")+"\n"); err != nil {
				return nil, ErrWrite.Wrap(err).With(slog.Int("args", len(args)))
			}

			return Null{}, nil
		},
	}
}
