// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("file loaded", slog.String("path", path))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options applied at creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options replaced, and
// [Logger.With] one that adds attributes to every message.
//
// # Package-Level Logger
//
// The package-level functions ([Info], [DebugContext], ...) write through a
// default logger that starts out writing text to standard error. [Config]
// replaces its options.
//
// # Levels
//
// Besides the four slog levels there is [LevelTrace], below [LevelDebug],
// used for per-step diagnostics of the evaluator. The zero [Logger]
// discards everything.
//
// # Output Formats
//
// Two output formats are supported: [FormatText] (default) and
// [FormatJSON]. With [WithPretty] enabled, text is written as styled
// key=value pairs and JSON as one indented object per record; colors are
// only used when the output is a terminal.
package log
