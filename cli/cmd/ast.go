package cmd

import (
	"context"

	"github.com/ardnew/tzlang/lang"
	"github.com/ardnew/tzlang/log"
)

// AST prints the parse tree of a script.
type AST struct {
	Format string `default:"json" enum:"${astFormatEnum}" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                            help:"Indent width; 0 prints compact output." short:"n"`

	File string `arg:"" default:"-" help:"Script file, or '-' to read standard input." name:"file"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stdout, stderr := output(ctx)

	format, err := lang.ParseFormat(a.Format)
	if err != nil {
		return err
	}

	scripts, err := loadScripts(ctx, []string{a.File}, searchPath(nil))
	if err != nil {
		return err
	}

	s := scripts[0]

	prog, err := lang.ParseString(ctx, s.source, lang.WithLogger(log.Default()))
	if err != nil {
		return report(stderr, s, err)
	}

	return lang.Write(ctx, stdout, prog, format, a.Indent)
}
