package lambda

import (
	"context"
	"log/slog"

	"github.com/ardnew/churchill/log"
)

// DefaultMaxSteps is the default ceiling on the number of reductions
// performed by [Evaluate] before it gives up with a [*TerminationError].
const DefaultMaxSteps = 100_000_000

// Option configures evaluation.
type Option func(*config)

// config holds evaluation settings.
type config struct {
	logger   log.Logger
	trace    func(step int, e Expr)
	maxSteps int
}

func makeConfig(opts ...Option) config {
	c := config{maxSteps: DefaultMaxSteps}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithMaxSteps sets the number of reductions allowed before evaluation
// fails. Values less than 1 select [DefaultMaxSteps].
func WithMaxSteps(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = DefaultMaxSteps
		}

		c.maxSteps = n
	}
}

// WithLogger sets the logger used for trace-level diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithTrace registers fn to be called with every intermediate term, starting
// with the input at step 0.
func WithTrace(fn func(step int, e Expr)) Option {
	return func(c *config) { c.trace = fn }
}

// Result is the outcome of a successful evaluation.
type Result struct {
	Normal Expr // Beta-normal form
	Steps  int  // Number of reductions performed
}

// ReduceOnce performs one normal-order reduction step. It reports false if e
// contains no redex, i.e. e is already in normal form.
//
// For an application the redex at the root is contracted first; otherwise the
// function position is reduced before the argument. Reduction continues under
// binders, so the result of repeated steps is the full normal form.
func ReduceOnce(e Expr) (Expr, bool) {
	switch x := e.(type) {
	case App:
		if f, ok := x.Fun.(Abs); ok {
			return Substitute(f.Body, f.Param, x.Arg), true
		}

		if f, ok := ReduceOnce(x.Fun); ok {
			return App{Fun: f, Arg: x.Arg}, true
		}

		if a, ok := ReduceOnce(x.Arg); ok {
			return App{Fun: x.Fun, Arg: a}, true
		}

	case Abs:
		if b, ok := ReduceOnce(x.Body); ok {
			return Abs{Param: x.Param, Body: b}, true
		}
	}

	return e, false
}

// Evaluate reduces e to beta-normal form.
//
// The context is used only for logging; evaluation is bounded solely by the
// step ceiling (see [WithMaxSteps]).
func Evaluate(ctx context.Context, e Expr, opts ...Option) (Expr, error) {
	res, err := Run(ctx, e, opts...)
	if err != nil {
		return nil, err
	}

	return res.Normal, nil
}

// Run is like [Evaluate] but also reports the number of reductions
// performed.
func Run(ctx context.Context, e Expr, opts ...Option) (Result, error) {
	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(ctx, "evaluate start",
		slog.Int("size", Size(e)),
		slog.Int("max_steps", cfg.maxSteps),
	)

	if cfg.trace != nil {
		cfg.trace(0, e)
	}

	for step := 0; ; step++ {
		next, ok := ReduceOnce(e)
		if !ok {
			cfg.logger.TraceContext(ctx, "evaluate complete",
				slog.Int("steps", step),
				slog.Int("size", Size(e)),
			)

			return Result{Normal: e, Steps: step}, nil
		}

		if step == cfg.maxSteps {
			err := &TerminationError{Steps: step, Last: e}

			cfg.logger.TraceContext(ctx, "evaluate diverged", slog.Any("error", err))

			return Result{}, err
		}

		e = next

		if cfg.trace != nil {
			cfg.trace(step+1, e)
		}
	}
}
