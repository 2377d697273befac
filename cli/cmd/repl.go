package cmd

import (
	"context"

	"github.com/ardnew/tzlang/cli/cmd/repl"
	"github.com/ardnew/tzlang/lang"
	"github.com/ardnew/tzlang/log"
)

// REPL starts an interactive session.
type REPL struct {
	Define   []string `help:"Define global NAME as the value of expr-lang expression EXPR." placeholder:"NAME=EXPR" sep:"none" short:"D"`
	Load     []string `help:"Evaluate FILE before the first prompt."                      placeholder:"FILE"      sep:"none" short:"l"`
	Path     []string `help:"Search DIR for scripts before the directories in ${pathEnv}." placeholder:"DIR"       sep:"none" short:"I" type:"path"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum function call depth (0 is unbounded)."`
	NoSave   bool     `help:"Do not read or write the history file."`
}

// Run executes the repl command.
func (r *REPL) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	globals, err := lang.ParseDefines(r.Define)
	if err != nil {
		return err
	}

	scripts, err := loadScripts(ctx, r.Load, searchPath(r.Path))
	if err != nil {
		return err
	}

	cfg := repl.Config{
		Logger: log.Default(),
		Options: []lang.Option{
			lang.WithGlobals(globals),
			lang.WithMaxDepth(r.MaxDepth),
		},
	}

	for _, s := range scripts {
		cfg.Preload = append(cfg.Preload, s.source)
	}

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoSave {
		cfg.CacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, cfg)
}
