package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/tzlang/lang"
	"github.com/ardnew/tzlang/lang/runtime"
	"github.com/ardnew/tzlang/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Vars returns the kong variables interpolated into the command flags.
func Vars() kong.Vars {
	return kong.Vars{
		"pathEnv":       PathEnv(),
		"maxDepth":      strconv.Itoa(runtime.DefaultMaxDepth),
		"astFormatEnum": strings.Join(lang.Formats(), ","),
	}
}

// PathEnv returns the name of the environment variable listing the
// directories searched for scripts.
func PathEnv() string { return pkg.EnvPrefix() + "PATH" }

// stdin is read for the source name "-".
var stdin io.Reader = os.Stdin

// stdinSource is the special source name for reading from stdin.
const stdinSource = "-"

// output returns the writers configured on the kong context, or the process
// stdout and stderr when there is none.
func output(ctx context.Context) (stdout, stderr io.Writer) {
	if ktx := kongContextFrom(ctx); ktx != nil {
		return ktx.Stdout, ktx.Stderr
	}

	return os.Stdout, os.Stderr
}

// script is a loaded source file.
type script struct {
	name   string
	source string
}

// searchPath returns the directories searched for scripts: dirs, followed
// by the entries of the environment variable named by [PathEnv].
func searchPath(dirs []string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv())),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()

	return filepath.SplitList(list)
}

// locate returns the path of the script named name. A name that exists as
// given is used directly; a relative name is otherwise looked up in each
// directory of path in order.
func locate(name string, path []string) (string, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name, nil
	}

	if !filepath.IsAbs(name) {
		for _, dir := range path {
			if dir == "" {
				continue
			}

			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, nil
			}
		}
	}

	return "", pkg.ErrFileNotExist.With(slog.String("file", name))
}

// fileKey uniquely identifies a file by its device and inode numbers, so a
// file named twice through different paths or symlinks is loaded once.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey returns false if info does not carry a *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// loadScripts locates and reads each named script in order. Names that
// resolve to an already loaded file are skipped. Standard input is read at
// most once.
func loadScripts(
	ctx context.Context,
	names []string,
	path []string,
) ([]script, error) {
	var (
		scripts   []script
		readStdin bool
		seen      = make(map[fileKey]struct{})
	)

	for _, name := range names {
		if name == stdinSource {
			if readStdin {
				continue
			}

			readStdin = true

			source, err := lang.ReadSource(ctx, stdin)
			if err != nil {
				return nil, err
			}

			scripts = append(scripts, script{name: "<stdin>", source: source})

			continue
		}

		file, err := locate(name, path)
		if err != nil {
			return nil, err
		}

		if info, err := os.Stat(file); err == nil {
			if key, ok := makeFileKey(info); ok {
				if _, dup := seen[key]; dup {
					continue
				}

				seen[key] = struct{}{}
			}
		}

		source, err := readFile(ctx, file)
		if err != nil {
			return nil, err
		}

		scripts = append(scripts, script{name: file, source: source})
	}

	return scripts, nil
}

func readFile(ctx context.Context, name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", pkg.ErrReadInput.Wrap(err).With(slog.String("file", name))
	}
	defer f.Close()

	return lang.ReadSource(ctx, f)
}
