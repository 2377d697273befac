package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/tzlang/lang"
	"github.com/ardnew/tzlang/pkg"
)

// ErrScript reports a script that failed to parse or evaluate. The
// diagnostic has already been written to the command's stderr.
var ErrScript = pkg.NewError("script failed")

// report writes the diagnostic for err, raised by the script named name, to
// w and returns err wrapped in [ErrScript].
func report(w io.Writer, s script, err error) error {
	fmt.Fprintf(w, "%s: %s\n", s.name, lang.Snippet(s.source, err))

	return ErrScript.Wrap(err).With(slog.String("file", s.name))
}
