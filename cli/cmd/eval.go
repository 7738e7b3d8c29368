package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ardnew/churchill/lambda"
	"github.com/ardnew/churchill/log"
)

// Eval evaluates an expression given on the command line or every line of a
// file. With neither, it starts the interactive REPL.
type Eval struct {
	Expr []string `arg:"" help:"Expression to evaluate (arguments are joined with spaces)" name:"expr" optional:""`
	File string   `       help:"Evaluate every line of FILE ('-' for stdin)"                           short:"f" placeholder:"FILE"`

	Decode   bool   `help:"Also print decoded Church numerals and booleans"         short:"d"`
	Expect   string `help:"Fail unless the condition holds for every result"         short:"e" placeholder:"COND"`
	MaxSteps int    `help:"Reduction step ceiling" default:"${maxSteps}"             short:"n"`
	Trace    bool   `help:"Print every intermediate term to stderr"                  short:"t"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if len(e.Expr) == 0 && e.File == "" {
		repl := Repl{MaxSteps: e.MaxSteps, Trace: e.Trace}

		return repl.Run(ctx)
	}

	expect, err := e.expectation()
	if err != nil {
		return err
	}

	streams := streamsFrom(ctx)

	session, err := newSession(ctx, evalOptions(streams.Err, e.MaxSteps, e.Trace)...)
	if err != nil {
		return err
	}

	report := func(out lambda.Outcome) error {
		if out.Kind != lambda.LineExpression {
			return nil
		}

		if err := e.print(streams.Out, out); err != nil {
			return err
		}

		return expect.check(out)
	}

	if e.File != "" {
		return e.runFile(ctx, session, streams.In, report)
	}

	input := strings.Join(e.Expr, " ")

	out, err := session.Exec(ctx, input)
	if err != nil {
		return ErrEvaluate.With(slog.String("input", input)).Wrap(err)
	}

	if out.Kind == lambda.LineDefinition {
		_, err = fmt.Fprintln(streams.Out, out)

		return err
	}

	return report(out)
}

func (e *Eval) expectation() (*expectation, error) {
	if e.Expect == "" {
		return nil, nil
	}

	return compileExpectation(e.Expect)
}

// runFile executes every line of the file, reporting the normal form of each
// expression line and stopping at the first failure.
func (e *Eval) runFile(
	ctx context.Context,
	session *lambda.Session,
	stdin io.Reader,
	report func(lambda.Outcome) error,
) error {
	r := stdin

	if e.File != StdinSource {
		file, err := os.Open(e.File)
		if err != nil {
			return ErrReadInput.With(slog.String("file", e.File)).Wrap(err)
		}
		defer file.Close()

		r = file
	}

	log.DebugContext(ctx, "evaluating file", slog.String("file", e.File))

	if err := session.Load(ctx, r, report); err != nil {
		return ErrEvaluate.With(slog.String("file", e.File)).Wrap(err)
	}

	return nil
}

// print writes the normal form of out, followed by its decoded value when
// decoding is enabled and the normal form is a Church numeral or boolean.
func (e *Eval) print(w io.Writer, out lambda.Outcome) error {
	line := out.String()

	if e.Decode {
		if s, ok := decode(out.Expr); ok {
			line += "  # " + s
		}
	}

	_, err := fmt.Fprintln(w, line)

	return err
}

// decode describes e as a Church numeral or boolean. Numerals take precedence
// since zero and false share a normal form.
func decode(e lambda.Expr) (string, bool) {
	if n, ok := lambda.DecodeNumeral(e); ok {
		return strconv.Itoa(n), true
	}

	if b, ok := lambda.DecodeBool(e); ok {
		return strconv.FormatBool(b), true
	}

	return "", false
}

// evalOptions returns the evaluation options shared by eval and repl.
func evalOptions(trace io.Writer, maxSteps int, enableTrace bool) []lambda.Option {
	opts := []lambda.Option{
		lambda.WithMaxSteps(maxSteps),
		lambda.WithLogger(log.Default()),
	}

	if enableTrace {
		opts = append(opts, lambda.WithTrace(func(step int, e lambda.Expr) {
			fmt.Fprintf(trace, "%d: %s\n", step, e)
		}))
	}

	return opts
}
