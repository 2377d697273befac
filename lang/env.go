package lang

// This file declares the environment visible to --define expressions, which
// are evaluated by expr-lang before a program starts. The static part is
// computed once per process and cloned per use.

import (
	"maps"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ardnew/mung"
)

var hostEnv = sync.OnceValue(func() map[string]any {
	return map[string]any{
		"os":       runtime.GOOS,
		"arch":     runtime.GOARCH,
		"hostname": hostname(),
		"user":     username(),
		"shell":    os.Getenv("SHELL"),
		"cwd":      cwd,
		"env":      os.Getenv,
		"file": map[string]any{
			"exists": fileExists,
			"isDir":  fileIsDir,
		},
		"path": map[string]any{
			"abs":  pathAbs,
			"join": filepath.Join,
			"base": filepath.Base,
			"dir":  filepath.Dir,
		},
		"mung": map[string]any{
			"prefix": mungPrefix,
		},
	}
})

// ExprEnv returns a copy of the environment --define expressions are
// evaluated in. Callers may modify the result.
func ExprEnv() map[string]any { return maps.Clone(hostEnv()) }

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}

	return h
}

func username() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}

	return u.Username
}

func cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return dir
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

// mungPrefix prepends dirs to the path list list, dropping duplicates.
func mungPrefix(list string, dirs ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()
}
