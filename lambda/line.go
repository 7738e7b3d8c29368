package lambda

import (
	"log/slog"
	"strings"
)

// LineKind classifies a line of input.
type LineKind int

const (
	// LineEmpty is a blank or comment-only line.
	LineEmpty LineKind = iota

	// LineDefinition binds a name: `name = expr`.
	LineDefinition

	// LineExpression is an expression to evaluate.
	LineExpression
)

// String returns a string representation of the line kind.
func (k LineKind) String() string {
	switch k {
	case LineEmpty:
		return "empty"
	case LineDefinition:
		return "definition"
	case LineExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// Line is a parsed line of input.
type Line struct {
	Kind LineKind
	Name string // Defined name (LineDefinition only)
	Expr Expr   // Parsed expression (nil for LineEmpty)
	Text string // Input with comments and surrounding whitespace removed
}

// ToMap converts l to a map suitable for generic encoders.
func (l Line) ToMap() map[string]any {
	m := map[string]any{"kind": l.Kind.String()}

	if l.Name != "" {
		m["name"] = l.Name
	}

	if l.Expr != nil {
		m["expr"] = ToMap(l.Expr)
	}

	return m
}

// String renders l in the syntax accepted by [ParseLine].
func (l Line) String() string {
	switch l.Kind {
	case LineDefinition:
		return l.Name + " = " + Render(l.Expr)
	case LineExpression:
		return Render(l.Expr)
	}

	return ""
}

// IsValidIdent reports whether s can be used as a definition name: a letter
// or underscore followed by letters, digits or underscores.
func IsValidIdent(s string) bool {
	for i, r := range s {
		if i == 0 && !isNameStart(r) || !isNameContinue(r) {
			return false
		}
	}

	return s != ""
}

// StripComment removes everything from the first '#' in s.
func StripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}

	return s
}

// ParseLine parses one line of input.
//
// Comments are removed and surrounding whitespace is trimmed. If the text
// before the first '=' is a valid identifier the line is a definition of that
// name; otherwise the whole line is parsed as an expression.
//
// Positions in a returned [*ParseError] refer to the parsed expression text,
// which for a definition is the right-hand side.
func ParseLine(s string) (Line, error) {
	text := strings.TrimSpace(StripComment(s))
	if text == "" {
		return Line{Kind: LineEmpty}, nil
	}

	if lhs, rhs, ok := strings.Cut(text, "="); ok {
		name := strings.TrimSpace(lhs)

		if IsValidIdent(name) {
			e, err := Parse(strings.TrimSpace(rhs))
			if err != nil {
				return Line{}, ErrDefinition.
					With(slog.String("name", name)).
					Wrap(err)
			}

			return Line{
				Kind: LineDefinition,
				Name: name,
				Expr: e,
				Text: text,
			}, nil
		}
	}

	e, err := Parse(text)
	if err != nil {
		return Line{}, err
	}

	return Line{Kind: LineExpression, Expr: e, Text: text}, nil
}
