package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/churchill/log"
)

func Example() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"))
	logger.Info("evaluate complete", slog.Int("steps", 3))
	// Output: level=INFO msg="evaluate complete" steps=3
}

func Example_json() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.Warn("slow reduction", slog.Int("steps", 1000000))
	// Output: {"level":"WARN","msg":"slow reduction","steps":1000000}
}

func Example_levels() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelWarn), log.WithTimeLayout("none"))

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown", slog.String("key", "value"))
	// Output: level=WARN msg=shown key=value
}

func Example_withAttributes() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"))
	logger = logger.With(slog.String("file", "prelude.lc"))

	logger.Info("loaded")
	// Output: level=INFO msg=loaded file=prelude.lc
}

func Example_withContext() {
	ctx := context.Background()
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelTrace), log.WithTimeLayout("none"))

	logger.TraceContext(ctx, "reduce", slog.Int("step", 1))
	// Output: level=TRACE msg=reduce step=1
}
