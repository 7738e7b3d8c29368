package lambda

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrParse       = NewError("parse error")
	ErrTermination = NewError("maximum reduction steps exceeded")
	ErrDefinition  = NewError("invalid definition")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same message, so that
// values derived with [Error.With] or [Error.Wrap] still match their
// sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError describes the first syntax error found in an input string.
type ParseError struct {
	Msg    string // Description without position, e.g. "expected ')'"
	Pos    int    // 0-based rune offset into Source
	Char   rune   // Offending character, or 0 at end of input
	Source string // The original input
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Msg + " at pos " + strconv.Itoa(e.Pos)
}

// Unwrap returns [ErrParse].
func (e *ParseError) Unwrap() error { return ErrParse }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Msg),
		slog.Int("pos", e.Pos),
	}

	if e.Char != 0 {
		attrs = append(attrs, slog.String("char", string(e.Char)))
	}

	return slog.GroupValue(attrs...)
}

// Snippet returns the source line with a caret under the offending
// position, or an empty string if the source is unknown.
func (e *ParseError) Snippet() string {
	if e.Source == "" {
		return ""
	}

	src := []rune(e.Source)
	pos := min(max(e.Pos, 0), len(src))

	var b strings.Builder

	b.WriteString("  | ")
	b.WriteString(e.Source)
	b.WriteByte('\n')
	b.WriteString("  | ")
	// Tabs are kept so that the caret lines up with the echoed source.
	for _, r := range src[:pos] {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}

	b.WriteString("^\n")

	return b.String()
}

// TerminationError is returned when reduction does not reach a normal form
// within the configured number of steps.
type TerminationError struct {
	Steps int  // Reductions performed before giving up
	Last  Expr // The term reached after Steps reductions
}

// Error implements the error interface.
func (e *TerminationError) Error() string {
	return ErrTermination.msg + " (" + strconv.Itoa(e.Steps) + ")"
}

// Unwrap returns [ErrTermination].
func (e *TerminationError) Unwrap() error { return ErrTermination }

// LogValue implements slog.LogValuer.
func (e *TerminationError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrTermination.msg),
		slog.Int("steps", e.Steps),
	)
}

// LineError annotates an error with the 1-based line of the input that
// produced it.
type LineError struct {
	Line int
	Err  error
}

// Error implements the error interface.
func (e *LineError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *LineError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", e.Line),
		slog.Any("cause", e.Err),
	)
}
