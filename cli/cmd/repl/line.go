package repl

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/churchill/lambda"
)

const (
	banner     = "Churchill REPL ~ lambdas and chilling (type 'exit' or Ctrl+D to quit)"
	linePrompt = "> "
)

// runLines is the line-oriented REPL used when no terminal is attached.
// Results go to cfg.Out and errors to cfg.Err; no error ends the loop except
// a failure to read input.
func runLines(ctx context.Context, cfg Config) error {
	fmt.Fprintln(cfg.Out, banner)

	scanner := bufio.NewScanner(cfg.In)

	for {
		fmt.Fprint(cfg.Out, linePrompt)

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(lambda.StripComment(scanner.Text()))
		if input == "" {
			continue
		}

		if isQuit(input) {
			return nil
		}

		out, err := cfg.Session.Exec(ctx, input)
		if err != nil {
			cfg.Logger.TraceContext(ctx, "repl eval failed",
				slog.String("input", input),
				slog.Any("error", err),
			)
			fmt.Fprintf(cfg.Err, "Error: %v\n", err)

			continue
		}

		fmt.Fprintln(cfg.Out, out)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(cfg.Err, "Error reading input: %v\n", err)

		return err
	}

	// Leave the cursor on a fresh line after Ctrl+D.
	fmt.Fprintln(cfg.Out)

	return nil
}
