package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/churchill/lambda"
	"github.com/ardnew/churchill/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-load-retry loop. It
// writes the current definitions to a temp file, opens the user's editor, and
// loads the result into a fresh session. On error the user is prompted to
// re-edit; declining exits the program.
type editCommand struct {
	session *lambda.Session
	ctxFunc func() context.Context
	result  *lambda.Session
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-load-retry loop. If the user declines to re-edit, it
// returns [ErrEditDeclined]. An emptied file leaves result nil.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	content := formatDefinitions(c.session.Env())

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), "churchill-repl-*.lc")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		next := c.session.Fresh()
		loadErr := next.Load(ctx, strings.NewReader(string(data)), nil)

		c.logger.TraceContext(
			ctx,
			"editor load attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", loadErr == nil),
		)

		if loadErr == nil {
			c.result = next

			return nil
		}

		fmt.Fprintf(c.stderr, "\nError: %s\n", loadErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// formatDefinitions renders env as one definition per line, in name order.
func formatDefinitions(env lambda.Env) string {
	var b strings.Builder

	for _, name := range env.Names() {
		def, _ := env.Lookup(name)
		b.WriteString(lambda.Line{Kind: lambda.LineDefinition, Name: name, Expr: def}.String())
		b.WriteByte('\n')
	}

	return b.String()
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	// Editors are often configured with arguments, e.g. "code --wait".
	args := strings.Fields(editor)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
