// Package cmd implements the tzlang subcommands: run, ast, repl and
// version.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the configuration file, without extension.
	ConfigIdentifier = "config"
)
