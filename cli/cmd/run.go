package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/tzlang/lang"
	"github.com/ardnew/tzlang/lang/runtime"
	"github.com/ardnew/tzlang/log"
)

// Run evaluates a script and prints the value of its last statement.
type Run struct {
	Define   []string `help:"Define global NAME as the value of expr-lang expression EXPR." placeholder:"NAME=EXPR" sep:"none" short:"D"`
	Load     []string `help:"Evaluate FILE before the script, in the same environment."   placeholder:"FILE"      sep:"none" short:"l"`
	Path     []string `help:"Search DIR for scripts before the directories in ${pathEnv}." placeholder:"DIR"       sep:"none" short:"I" type:"path"`
	Inspect  bool     `help:"Describe the result value instead of printing it."                                                short:"i"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum function call depth (0 is unbounded)."`

	File string `arg:"" default:"-" help:"Script file, or '-' to read standard input." name:"file"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stdout, stderr := output(ctx)

	globals, err := lang.ParseDefines(r.Define)
	if err != nil {
		return err
	}

	scripts, err := loadScripts(ctx, append(r.Load, r.File), searchPath(r.Path))
	if err != nil {
		return err
	}

	in, err := lang.New(
		lang.WithLogger(log.Default()),
		lang.WithOutput(stdout),
		lang.WithGlobals(globals),
		lang.WithMaxDepth(r.MaxDepth),
	)
	if err != nil {
		return err
	}

	var result runtime.Value = runtime.Null{}

	for _, s := range scripts {
		log.DebugContext(ctx, "run script", slog.String("file", s.name))

		result, err = in.Run(ctx, s.source)
		if err != nil {
			return report(stderr, s, err)
		}
	}

	if r.Inspect {
		return lang.WriteInspection(stdout, result)
	}

	_, err = fmt.Fprintln(stdout, runtime.Display(result))

	return err
}
