// Package profile wraps [github.com/pkg/profile] to capture runtime
// profiles of the interpreter.
//
// Profiling is compiled in only with the "pprof" build tag. Without it,
// [Modes] is empty and [Profiler.Start] returns a no-op stopper.
//
//	go build -tags pprof .
//	aocl --pprof-mode cpu day1
//	go tool pprof -http=: ~/.cache/aocl/pprof/cpu.pprof
//
// Profile files are named for their mode (cpu.pprof, mem.pprof, and so
// on) and written to [Profiler.Path].
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
