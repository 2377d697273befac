// Package profile provides optional runtime profiling for the tzlang
// command, built on [github.com/pkg/profile].
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof -o tzlang .
//
// Without the tag, [Config.Start] always returns a no-op profiler and
// [Modes] is empty.
//
// # Usage
//
// The command line exposes the profiler through the pprof flag group:
//
//	tzlang --pprof-mode cpu run fib.tz
//	tzlang --pprof-mode heap --pprof-dir ./profiles run fib.tz
//
// Profiles are written to the user cache directory by default:
//
//	$XDG_CACHE_HOME/tzlang/pprof   (Linux/Unix)
//	~/Library/Caches/tzlang/pprof  (macOS)
//	%LocalAppData%\tzlang\pprof    (Windows)
//
// Analyze them with the pprof tool:
//
//	go tool pprof -http=: ./tzlang ~/.cache/tzlang/pprof/cpu.pprof
//
// Deep recursion in tz programs shows up as long chains of
// runtime.(*Evaluator).call frames in CPU profiles; the cpu and clock modes
// are the most useful for interpreter work.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
