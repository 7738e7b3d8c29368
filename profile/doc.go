// Package profile provides optional runtime profiling for churchill.
//
// Profiling is backed by [github.com/pkg/profile] and compiled in only when
// building with the "pprof" build tag ([Tag]):
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Profiler.Start] always returns a
// no-op, so callers never need to check whether profiling is available.
//
// # Modes
//
// With the tag, the following modes are accepted:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// A CPU profile of a long reduction is usually the interesting one:
//
//	churchill --pprof-mode cpu -f church.lc
//	go tool pprof -http=: ~/.cache/churchill/pprof/cpu.pprof
//
// Profile files are written to [Profiler.Path] with names matching the mode
// (cpu.pprof, mem.pprof, ...).
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
