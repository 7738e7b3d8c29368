package lambda

import (
	"context"
	"testing"
)

func TestDecodeNumeral(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{`\f.\x.x`, 0, true},
		{`\f.\x.f x`, 1, true},
		{`\s.\z.s (s (s z))`, 3, true},
		{`\f.\x.f`, 0, false},
		{`\f.\f.f`, 0, false},
		{`\f.\x.x f`, 0, false},
		{`\f.\x.f (g x)`, 0, false},
		{"x", 0, false},
		{`\f.f`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, ok := DecodeNumeral(MustParse(tt.input))
			if n != tt.want || ok != tt.ok {
				t.Errorf("DecodeNumeral(%s) = %d, %v; want %d, %v",
					tt.input, n, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDecodeBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
		ok    bool
	}{
		{`\a.\b.a`, true, true},
		{`\a.\b.b`, false, true},
		{`\a.\a.a`, false, false},
		{`\a.\b.c`, false, false},
		{`\a.\b.a b`, false, false},
		{"t", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, ok := DecodeBool(MustParse(tt.input))
			if v != tt.want || ok != tt.ok {
				t.Errorf("DecodeBool(%s) = %v, %v; want %v, %v",
					tt.input, v, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNumeral_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7} {
		if got, ok := DecodeNumeral(Numeral(n)); !ok || got != n {
			t.Errorf("DecodeNumeral(Numeral(%d)) = %d, %v", n, got, ok)
		}
	}

	if got, ok := DecodeNumeral(Numeral(-3)); !ok || got != 0 {
		t.Errorf("DecodeNumeral(Numeral(-3)) = %d, %v; want 0, true", got, ok)
	}
}

func TestChurchArithmetic(t *testing.T) {
	env := Env{}
	for _, def := range []string{
		`SUCC = \n.\f.\x.f (n f x)`,
		`PLUS = \m.\n.\f.\x.m f (n f x)`,
		`MULT = \m.\n.\f.m (n f)`,
		`TRUE = \a.\b.a`,
		`FALSE = \a.\b.b`,
		`AND = \p.\q.p q p`,
		`ISZERO = \n.n (\x.FALSE) TRUE`,
	} {
		line, err := ParseLine(def)
		if err != nil {
			t.Fatalf("ParseLine(%s) error = %v", def, err)
		}

		env.Define(line.Name, Expand(line.Expr, env))
	}

	env.Define("TWO", Numeral(2))
	env.Define("THREE", Numeral(3))

	ctx := context.Background()

	numerals := []struct {
		input string
		want  int
	}{
		{"SUCC TWO", 3},
		{"PLUS TWO THREE", 5},
		{"MULT TWO THREE", 6},
		{"MULT THREE (SUCC THREE)", 12},
	}

	for _, tt := range numerals {
		t.Run(tt.input, func(t *testing.T) {
			nf, err := Evaluate(ctx, Expand(MustParse(tt.input), env))
			if err != nil {
				t.Fatalf("Evaluate error = %v", err)
			}

			if n, ok := DecodeNumeral(nf); !ok || n != tt.want {
				t.Errorf("%s = %s (%d, %v), want %d", tt.input, Render(nf), n, ok, tt.want)
			}
		})
	}

	booleans := []struct {
		input string
		want  bool
	}{
		{"AND TRUE TRUE", true},
		{"AND TRUE FALSE", false},
		{`ISZERO (\f.\x.x)`, true},
		{"ISZERO TWO", false},
	}

	for _, tt := range booleans {
		t.Run(tt.input, func(t *testing.T) {
			nf, err := Evaluate(ctx, Expand(MustParse(tt.input), env))
			if err != nil {
				t.Fatalf("Evaluate error = %v", err)
			}

			if v, ok := DecodeBool(nf); !ok || v != tt.want {
				t.Errorf("%s = %s (%v, %v), want %v", tt.input, Render(nf), v, ok, tt.want)
			}
		})
	}
}
