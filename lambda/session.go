package lambda

import (
	"bufio"
	"context"
	"io"
	"log/slog"
)

// maxLineBytes bounds a single line read by [Session.Load].
const maxLineBytes = 1 << 20

// Outcome is the result of executing one line in a [Session].
type Outcome struct {
	Kind  LineKind
	Name  string // Defined name (LineDefinition only)
	Expr  Expr   // Expanded definition or normal form
	Steps int    // Reductions performed (LineExpression only)
	Line  int    // 1-based line number when produced by Load
}

// String renders o the way the interactive front end reports it.
func (o Outcome) String() string {
	switch o.Kind {
	case LineDefinition:
		return "Defined " + o.Name + " = " + Render(o.Expr)
	case LineExpression:
		return Render(o.Expr)
	}

	return ""
}

// Session evaluates lines of input against an environment of definitions
// that persists between calls.
type Session struct {
	env  Env
	opts []Option
	cfg  config
}

// NewSession returns a session starting from a copy of env, which may be
// nil. The options apply to every evaluation.
func NewSession(env Env, opts ...Option) *Session {
	return &Session{
		env:  env.Clone(),
		opts: opts,
		cfg:  makeConfig(opts...),
	}
}

// Fresh returns a new session with an empty environment and the same options
// as s.
func (s *Session) Fresh() *Session { return NewSession(nil, s.opts...) }

// Env returns the session's environment. The caller must not modify it.
func (s *Session) Env() Env { return s.env }

// Define binds name to e after expanding it against the current environment.
func (s *Session) Define(name string, e Expr) Expr {
	def := Expand(e, s.env)
	s.env.Define(name, def)

	return def
}

// Exec parses and executes a single line of input.
func (s *Session) Exec(ctx context.Context, text string) (Outcome, error) {
	line, err := ParseLine(text)
	if err != nil {
		s.cfg.logger.TraceContext(ctx, "session parse failed",
			slog.String("input", text),
			slog.Any("error", err),
		)

		return Outcome{}, err
	}

	return s.ExecLine(ctx, line)
}

// ExecLine executes a line already parsed by [ParseLine].
func (s *Session) ExecLine(ctx context.Context, line Line) (Outcome, error) {
	switch line.Kind {
	case LineDefinition:
		def := s.Define(line.Name, line.Expr)

		s.cfg.logger.TraceContext(ctx, "session define",
			slog.String("name", line.Name),
			slog.Int("size", Size(def)),
		)

		return Outcome{Kind: LineDefinition, Name: line.Name, Expr: def}, nil

	case LineExpression:
		res, err := Run(ctx, Expand(line.Expr, s.env), s.opts...)
		if err != nil {
			return Outcome{}, err
		}

		return Outcome{
			Kind:  LineExpression,
			Expr:  res.Normal,
			Steps: res.Steps,
		}, nil
	}

	return Outcome{Kind: LineEmpty}, nil
}

// Load executes every line read from r in order, passing each non-empty
// outcome to emit. It stops at the first error, which is returned as a
// [*LineError]. An error returned by emit stops Load and is returned as is.
func (s *Session) Load(
	ctx context.Context,
	r io.Reader,
	emit func(Outcome) error,
) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	n := 0

	for scanner.Scan() {
		n++

		out, err := s.Exec(ctx, scanner.Text())
		if err != nil {
			return &LineError{Line: n, Err: err}
		}

		if out.Kind == LineEmpty || emit == nil {
			continue
		}

		out.Line = n

		if err := emit(out); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return &LineError{Line: n + 1, Err: err}
	}

	s.cfg.logger.TraceContext(ctx, "session load complete",
		slog.Int("lines", n),
		slog.Int("definitions", len(s.env)),
	)

	return nil
}
