// Package cli contains the command line interface for tzlang.
//
// # Commands
//
//	tzlang [run] FILE    evaluate a script and print its result
//	tzlang ast FILE      print the parse tree (json, yaml, repr or native)
//	tzlang repl          start an interactive session
//	tzlang version       print version information
//
// FILE may be "-" to read standard input. A relative FILE that does not
// exist is searched for in the directories given with --path, then in those
// listed in TZLANG_PATH.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory (for example ~/.config/tzlang). YAML mappings are
// flattened, so these are equivalent:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (Kitchen, RFC3339, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o tzlang .
//
//   - --pprof-mode: Enable profiling (cpu, heap, allocs, ...)
//   - --pprof-dir: Set profile output directory (default ~/.cache/tzlang/pprof)
//
// # Examples
//
//	# Evaluate a script with a host-defined global
//	tzlang run --define "home=env('HOME')" script.tz
//
//	# Dump the parse tree as YAML
//	tzlang ast --format yaml script.tz
//
//	# Debug logging with CPU profiling
//	tzlang --log-level=debug --pprof-mode=cpu run script.tz
package cli
