package lambda

import (
	"errors"
	"testing"
)

func TestIsValidIdent(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"x", true},
		{"_", true},
		{"SUCC", true},
		{"x1_y2", true},
		{"", false},
		{"1x", false},
		{"x-y", false},
		{"a b", false},
		{"λ", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidIdent(tt.input); got != tt.want {
				t.Errorf("IsValidIdent(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripComment(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x # comment", "x "},
		{"# only", ""},
		{"no comment", "no comment"},
		{"a # b # c", "a "},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := StripComment(tt.input); got != tt.want {
				t.Errorf("StripComment(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   LineKind
		ident  string
		render string
	}{
		{"blank", "   ", LineEmpty, "", ""},
		{"comment", "  # identity", LineEmpty, "", ""},
		{"definition", `I = \x.x`, LineDefinition, "I", "(λx.x)"},
		{"definition no spaces", `K=\x.\y.x`, LineDefinition, "K", "(λx.(λy.x))"},
		{"definition with comment", `I = \x.x # id`, LineDefinition, "I", "(λx.x)"},
		{"expression", "I z", LineExpression, "", "(I z)"},
		{"expression with comment", "f a # apply", LineExpression, "", "(f a)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := ParseLine(tt.input)
			if err != nil {
				t.Fatalf("ParseLine(%q) error = %v", tt.input, err)
			}

			if line.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", line.Kind, tt.kind)
			}

			if line.Name != tt.ident {
				t.Errorf("Name = %q, want %q", line.Name, tt.ident)
			}

			if got := Render(line.Expr); got != tt.render {
				t.Errorf("Expr = %q, want %q", got, tt.render)
			}
		})
	}
}

func TestParseLine_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		definition bool
	}{
		{"empty definition body", "x = ", true},
		{"bad definition body", "x = (y", true},
		{"invalid name falls back to expression", "1x = y", false},
		{"unbalanced expression", "(a b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.input)
			if err == nil {
				t.Fatalf("ParseLine(%q) succeeded, want error", tt.input)
			}

			if !errors.Is(err, ErrParse) {
				t.Errorf("error %v does not match ErrParse", err)
			}

			if got := errors.Is(err, ErrDefinition); got != tt.definition {
				t.Errorf("errors.Is(err, ErrDefinition) = %v, want %v", got, tt.definition)
			}
		})
	}
}

func TestLine_String_RoundTrips(t *testing.T) {
	for _, input := range []string{`I = \x.x`, "f (g a)", ""} {
		t.Run(input, func(t *testing.T) {
			line, err := ParseLine(input)
			if err != nil {
				t.Fatalf("ParseLine error = %v", err)
			}

			again, err := ParseLine(line.String())
			if err != nil {
				t.Fatalf("ParseLine(String()) error = %v", err)
			}

			if again.Kind != line.Kind || again.Name != line.Name ||
				(line.Expr != nil && !Equal(again.Expr, line.Expr)) {
				t.Errorf("round trip changed %q to %q", line.String(), again.String())
			}
		})
	}
}
