package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/churchill/cli/cmd/repl"
	"github.com/ardnew/churchill/log"
)

// Repl starts an interactive read-eval-print loop.
type Repl struct {
	MaxSteps int  `help:"Reduction step ceiling"                       default:"${maxSteps}" short:"n"`
	Trace    bool `help:"Print every intermediate term to stderr"                            short:"t"`
	Plain    bool `help:"Use the plain line-oriented prompt even on a terminal"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)

	session, err := newSession(ctx, evalOptions(streams.Err, r.MaxSteps, r.Trace)...)
	if err != nil {
		return err
	}

	cacheDir, _ := kongVar(ctx, CacheIdentifier)

	logger := log.With(slog.String("command", "repl"))

	return repl.Run(ctx, repl.Config{
		Session:  session,
		CacheDir: cacheDir,
		Logger:   logger,
		In:       streams.In,
		Out:      streams.Out,
		Err:      streams.Err,
		Plain:    r.Plain,
	})
}
