package profile

import (
	"log/slog"

	"github.com/ardnew/tzlang/log"
)

// Profiler is a running profiler. Stop flushes and closes its output; it is
// safe to call on the no-op profiler.
type Profiler interface{ Stop() }

// Config selects what is profiled and where profiles are written.
type Config struct {
	Logger log.Logger
	Mode   string // one of [Modes]; empty disables profiling
	Dir    string // output directory; empty selects the working directory
	Quiet  bool   // suppress the profiler's own log lines
}

// Option modifies a [Config].
type Option func(*Config)

// WithMode sets the profiling mode.
func WithMode(mode string) Option { return func(c *Config) { c.Mode = mode } }

// WithDir sets the output directory.
func WithDir(dir string) Option { return func(c *Config) { c.Dir = dir } }

// WithQuiet suppresses the profiler's own log lines.
func WithQuiet(quiet bool) Option { return func(c *Config) { c.Quiet = quiet } }

// WithLogger sets the logger receiving start and stop events.
func WithLogger(l log.Logger) Option { return func(c *Config) { c.Logger = l } }

// Start starts the profiler configured by opts. Without a mode, or when built
// without the pprof tag, it returns a profiler that does nothing.
func Start(opts ...Option) Profiler {
	var cfg Config

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Mode == "" {
		return nop{}
	}

	p := start(cfg)
	if _, ok := p.(nop); ok {
		cfg.Logger.Warn("profiling unavailable",
			slog.String("mode", cfg.Mode),
			slog.String("tag", Tag),
		)

		return p
	}

	cfg.Logger.Debug("profiling started",
		slog.String("mode", cfg.Mode),
		slog.String("dir", cfg.Dir),
	)

	return stopper{p, cfg}
}

// stopper logs when the profiler it wraps stops.
type stopper struct {
	Profiler
	cfg Config
}

func (s stopper) Stop() {
	s.Profiler.Stop()
	s.cfg.Logger.Debug("profiling stopped",
		slog.String("mode", s.cfg.Mode),
		slog.String("dir", s.cfg.Dir),
	)
}

type nop struct{}

func (nop) Stop() {}
