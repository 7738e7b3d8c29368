// Package cli contains the command line interface for churchill.
//
// # Usage
//
// Expressions given as arguments are reduced to normal form and printed:
//
//	churchill '(\x.x) y'
//	churchill eval -f church.lc --decode
//
// With no arguments, or with the repl command, an interactive session is
// started. Definition files given with --source are loaded first, in order,
// and may be found through the --path directories or $CHURCHILL_PATH:
//
//	churchill -s bool.lc -s church.lc 'NOT TRUE'
//
// # Commands
//
//   - eval: evaluate expressions or a file of lines (default)
//   - repl: interactive read-eval-print loop with history and completion
//   - fmt: reformat input as native syntax, JSON, YAML or an AST outline
//   - init: write the current flag values to the configuration file
//
// # Configuration
//
// Flag values are read from config.yaml in the user configuration directory
// (written by init) and from config.json beside it. Keys are flag names;
// nested mappings join with hyphens ([resolve]). Command-line flags override
// both.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o churchill .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/churchill/pprof)
package cli
