package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/tzlang/lang"
	"github.com/ardnew/tzlang/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It opens the user's editor on a
// scratch file seeded with text and checks that the result parses. On a
// syntax error the user is asked whether to edit again; declining returns
// [ErrEditDeclined].
type editCommand struct {
	ctx    context.Context
	logger log.Logger
	text   string // initial content; the accepted program on success
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. An empty result leaves c.text
// empty, which cancels the edit.
func (c *editCommand) Run() error {
	f, err := os.CreateTemp("", "tzlang-repl-*.tz")
	if err != nil {
		return err
	}

	path := f.Name()
	f.Close()

	defer os.Remove(path)

	content := c.text
	c.text = ""

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := c.runEditor(path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		_, err = lang.ParseString(c.ctx, content, lang.WithLogger(c.logger))

		c.logger.TraceContext(c.ctx, "editor parse attempt",
			slog.Int("length", len(content)),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			c.text = content

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", lang.Snippet(content, err))
		fmt.Fprint(c.stdout, "Edit again? [Y/n] ")

		if !confirm(c.stdin) {
			return ErrEditDeclined
		}
	}
}

func (c *editCommand) runEditor(path string) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	// The editor variable may carry arguments, e.g. "code --wait".
	args := append(strings.Fields(editor), path)

	cmd := exec.CommandContext(c.ctx, args[0], args[1:]...)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	return cmd.Run()
}

// confirm reads one line from r and reports whether it is not a "no".
func confirm(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	}

	return true
}
