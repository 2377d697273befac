// Package log provides a leveled structured logger built on [log/slog].
//
// Loggers are immutable values configured with functional options when they
// are created:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339"))
//
//	logger.Info("file loaded", slog.String("path", path))
//
// A derived logger is obtained with [Logger.Wrap] (new options) or
// [Logger.With] (extra attributes), leaving the original unchanged.
//
// # Levels
//
// In addition to the slog levels, [LevelTrace] sits below [LevelDebug]. The
// interpreter reports its internal steps (cache lookups, statement
// evaluation, calls) at Trace level.
//
// # Formats
//
// [FormatText] writes key=value lines, colorized unless disabled with
// [WithPretty]. [FormatJSON] writes one JSON object per line.
//
// # Package-level logger
//
// The functions [Debug], [Info], [Warn], [Error] and their Context variants
// log through a package-level logger that writes to standard error. The CLI
// reconfigures it with [Config] while parsing flags.
package log
