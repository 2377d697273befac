package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/tzlang/lang/runtime"
	"github.com/ardnew/tzlang/log"
)

// Interpreter evaluates programs against one global environment that
// persists between runs.
type Interpreter struct {
	env *runtime.Environment
	cfg config
}

type config struct {
	logger   log.Logger
	output   io.Writer
	globals  map[string]runtime.Value
	maxDepth int
}

// Option configures an [Interpreter] or a parse.
type Option func(*config)

// WithLogger sets the logger receiving cache and evaluation trace events.
func WithLogger(l log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithOutput binds the print native to w. Without it, programs have no
// print function.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// WithGlobals defines extra global variables.
func WithGlobals(globals map[string]runtime.Value) Option {
	return func(c *config) { c.globals = globals }
}

// WithMaxDepth limits the function call depth. See [runtime.WithMaxDepth].
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

func newConfig(opts ...Option) config {
	cfg := config{maxDepth: runtime.DefaultMaxDepth}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// New returns an interpreter with a fresh global environment.
func New(opts ...Option) (*Interpreter, error) {
	cfg := newConfig(opts...)

	var globalOpts []runtime.GlobalOption

	if cfg.output != nil {
		globalOpts = append(globalOpts, runtime.WithPrint(cfg.output))
	}

	if len(cfg.globals) > 0 {
		globalOpts = append(globalOpts, runtime.WithGlobals(cfg.globals))
	}

	env, err := runtime.NewGlobal(globalOpts...)
	if err != nil {
		return nil, err
	}

	return &Interpreter{env: env, cfg: cfg}, nil
}

// Env returns the global environment.
func (in *Interpreter) Env() *runtime.Environment { return in.env }

// Run parses and evaluates source, returning the value of its last
// statement. Evaluation stops with [pkg.ErrInterrupted] when ctx is done.
func (in *Interpreter) Run(ctx context.Context, source string) (runtime.Value, error) {
	prog, err := ParseString(ctx, source, WithLogger(in.cfg.logger))
	if err != nil {
		return nil, err
	}

	ev := runtime.NewEvaluator(
		runtime.WithContext(ctx),
		runtime.WithLogger(in.cfg.logger),
		runtime.WithMaxDepth(in.cfg.maxDepth),
	)

	v, err := ev.EvaluateProgram(prog, in.env)
	if err != nil {
		return nil, err
	}

	in.cfg.logger.DebugContext(ctx, "evaluated",
		slog.Int("statements", len(prog.Statements)),
		slog.String("result", v.Kind().String()),
	)

	return v, nil
}

// Run evaluates source in a new interpreter configured by opts.
func Run(ctx context.Context, source string, opts ...Option) (runtime.Value, error) {
	in, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return in.Run(ctx, source)
}
