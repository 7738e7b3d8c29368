package repl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/churchill/lambda"
	"github.com/ardnew/churchill/log"
)

const (
	evalPrompt = "λ "
	ctrlPrompt = ": "
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  list     List definitions
  edit     Edit definitions in external $EDITOR
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type an expression to reduce it to normal form
  Type name = expr to define name (definitions are expanded immediately)
  Everything after # is a comment
  Completions of defined names appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Type exit or quit, press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Config describes a REPL session.
type Config struct {
	Session  *lambda.Session
	CacheDir string // Directory holding the history file; empty disables it
	Logger   log.Logger
	In       io.Reader
	Out      io.Writer
	Err      io.Writer
	Plain    bool // Use the line-oriented loop even on a terminal
}

// Run starts the REPL. The full-screen interface is used when both In and
// Out are terminals; otherwise a plain prompt reads one line at a time.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.Session == nil {
		return ErrNoSession
	}

	cfg = cfg.withDefaults()
	tui := !cfg.Plain && isTerminal(cfg.In) && isTerminal(cfg.Out)

	cfg.Logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Bool("tui", tui),
		slog.Int("definitions", len(cfg.Session.Env())),
	)

	if !tui {
		return runLines(ctx, cfg)
	}

	var history *History
	if cfg.CacheDir != "" {
		history = NewHistory(filepath.Join(cfg.CacheDir, baseHistory))
	} else {
		history = NewHistory("")
	}

	if err := history.Load(); err != nil {
		fmt.Fprintf(cfg.Err, "Warning: could not load history: %v\n", err)
	}

	cfg.Logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, cfg.Session, history, cfg.Logger)

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cfg.In),
		tea.WithOutput(cfg.Out),
	)
	_, err = p.Run()

	return err
}

func (c Config) withDefaults() Config {
	if c.In == nil {
		c.In = os.Stdin
	}

	if c.Out == nil {
		c.Out = os.Stdout
	}

	if c.Err == nil {
		c.Err = os.Stderr
	}

	return c
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// isQuit reports whether input asks to leave the REPL.
func isQuit(input string) bool {
	return input == "exit" || input == "quit"
}
