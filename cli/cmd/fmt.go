package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/churchill/lambda"
)

// Fmt parses every line of a source file and prints it in the chosen format.
// Definitions are preserved; blank lines and comments are dropped.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical lambda syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as abstract syntax tree."`
}

// Native formats input in canonical, fully parenthesized syntax.
type Native struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	lines, err := readLines(ctx, f.Source)
	if err != nil {
		return err
	}

	w := streamsFrom(ctx).Out

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// JSON formats input as a JSON array of line objects.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	lines, err := readLines(ctx, j.Source)
	if err != nil {
		return err
	}

	if err := lambda.FormatJSON(streamsFrom(ctx).Out, lines, j.Indent); err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML formats input as a YAML sequence of line objects.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	lines, err := readLines(ctx, y.Source)
	if err != nil {
		return err
	}

	if err := lambda.FormatYAML(ctx, streamsFrom(ctx).Out, lines, y.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// AST formats input as an indented outline of expression nodes.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	lines, err := readLines(ctx, a.Source)
	if err != nil {
		return err
	}

	var b strings.Builder

	for _, line := range lines {
		if line.Kind == lambda.LineDefinition {
			fmt.Fprintf(&b, "Def %s\n", line.Name)
			writeTree(&b, line.Expr, 1)
		} else {
			writeTree(&b, line.Expr, 0)
		}
	}

	_, err = io.WriteString(streamsFrom(ctx).Out, b.String())

	return err
}

func writeTree(b *strings.Builder, e lambda.Expr, depth int) {
	indent := strings.Repeat("  ", depth)

	switch x := e.(type) {
	case lambda.Var:
		fmt.Fprintf(b, "%sVar %s\n", indent, x.Name)

	case lambda.Abs:
		fmt.Fprintf(b, "%sAbs %s\n", indent, x.Param)
		writeTree(b, x.Body, depth+1)

	case lambda.App:
		fmt.Fprintf(b, "%sApp\n", indent)
		writeTree(b, x.Fun, depth+1)
		writeTree(b, x.Arg, depth+1)
	}
}

// readLines parses every non-empty line of the named source. The first parse
// failure is returned as a [*lambda.LineError].
func readLines(ctx context.Context, source string) ([]lambda.Line, error) {
	r := streamsFrom(ctx).In

	if source != StdinSource {
		file, err := os.Open(source)
		if err != nil {
			return nil, ErrReadInput.With(slog.String("file", source)).Wrap(err)
		}
		defer file.Close()

		r = file
	}

	var lines []lambda.Line

	scanner := bufio.NewScanner(r)

	for n := 1; scanner.Scan(); n++ {
		line, err := lambda.ParseLine(scanner.Text())
		if err != nil {
			return nil, ErrReadInput.
				With(slog.String("file", source)).
				Wrap(&lambda.LineError{Line: n, Err: err})
		}

		if line.Kind != lambda.LineEmpty {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, ErrReadInput.With(slog.String("file", source)).Wrap(err)
	}

	return lines, nil
}
