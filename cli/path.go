package cli

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/tzlang/pkg"
)

// baseConfig is the base name of the configuration files. The extension
// selects the resolver: ".json" or ".yaml".
const baseConfig = "config"

// defaultDirMode is the permission mode of created directories.
var defaultDirMode os.FileMode = 0o700

// prefixRules rewrite the executable name into the directory prefix.
var prefixRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), pkg.Name}, // dlv default output
	{regexp.MustCompile(`^\.+`), ""},
}

// executablePrefix returns the base name of the executable at path without
// its extension, rewritten by prefixRules.
func executablePrefix(path string) string {
	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	for _, rule := range prefixRules {
		id = rule.rex.ReplaceAllString(id, rule.rep)
	}

	if id == "" {
		return pkg.Name
	}

	return id
}

// basePrefix names the configuration and cache directories after the
// running executable, so a renamed binary keeps separate settings.
var basePrefix = sync.OnceValue(
	func() string {
		exe, err := os.Executable()
		if err != nil {
			exe = os.Args[0]
		}

		return executablePrefix(exe)
	},
)

// userDir returns the directory named prefix under the first base directory
// that can be determined: the one reported by lookup, then hidden under the
// home directory, then the working directory.
func userDir(lookup func() (string, error), hidden, prefix string) string {
	dir, err := lookup()
	if err != nil {
		var home string

		if home, err = os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, prefix)
}

var (
	configDir = sync.OnceValue(func() string {
		return userDir(os.UserConfigDir, ".config", basePrefix())
	})
	cacheDir = sync.OnceValue(func() string {
		return userDir(os.UserCacheDir, ".cache", basePrefix())
	})
)

// configPath joins elem onto the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	var errs []error

	for _, dir := range []string{configDir(), cacheDir()} {
		errs = append(errs, os.MkdirAll(dir, defaultDirMode))
	}

	return errors.Join(errs...)
}
