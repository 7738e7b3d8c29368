package lambda

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSession_Exec_DefinitionsPersist(t *testing.T) {
	ctx := context.Background()
	s := NewSession(nil)

	steps := []struct {
		input string
		kind  LineKind
		out   string
	}{
		{`I = \x.x`, LineDefinition, "Defined I = (λx.x)"},
		{`K = \x.\y.x`, LineDefinition, "Defined K = (λx.(λy.x))"},
		{"# nothing", LineEmpty, ""},
		{"I z", LineExpression, "z"},
		{"K a b", LineExpression, "a"},
		{"KI = K I", LineDefinition, "Defined KI = ((λx.(λy.x)) (λx.x))"},
		{"KI a b", LineExpression, "b"},
	}

	for _, st := range steps {
		out, err := s.Exec(ctx, st.input)
		if err != nil {
			t.Fatalf("Exec(%q) error = %v", st.input, err)
		}

		if out.Kind != st.kind {
			t.Errorf("Exec(%q) kind = %v, want %v", st.input, out.Kind, st.kind)
		}

		if got := out.String(); got != st.out {
			t.Errorf("Exec(%q) = %q, want %q", st.input, got, st.out)
		}
	}

	if names := s.Env().Names(); len(names) != 3 {
		t.Errorf("Env names = %v, want 3 definitions", names)
	}
}

func TestSession_NewSession_CopiesEnv(t *testing.T) {
	env := Env{"I": MustParse(`\x.x`)}
	s := NewSession(env)

	if _, err := s.Exec(context.Background(), `K = \x.\y.x`); err != nil {
		t.Fatalf("Exec error = %v", err)
	}

	if _, ok := env["K"]; ok {
		t.Error("session definition leaked into the caller's env")
	}
}

func TestSession_Exec_Divergent_ReturnsTerminationError(t *testing.T) {
	s := NewSession(nil, WithMaxSteps(10))

	_, err := s.Exec(context.Background(), omega)
	if !errors.Is(err, ErrTermination) {
		t.Errorf("Exec(Ω) error = %v, want ErrTermination", err)
	}
}

func TestSession_Load_EmitsOutcomes(t *testing.T) {
	input := strings.Join([]string{
		"# prelude",
		`I = \x.x`,
		"",
		`K = \x.\y.x`,
		"K I z",
	}, "\n")

	var got []Outcome

	s := NewSession(nil)

	err := s.Load(context.Background(), strings.NewReader(input), func(o Outcome) error {
		got = append(got, o)

		return nil
	})
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	want := []struct {
		line int
		out  string
	}{
		{2, "Defined I = (λx.x)"},
		{4, "Defined K = (λx.(λy.x))"},
		{5, "(λx.x)"},
	}

	if len(got) != len(want) {
		t.Fatalf("Load emitted %d outcomes, want %d", len(got), len(want))
	}

	for i, w := range want {
		if got[i].Line != w.line || got[i].String() != w.out {
			t.Errorf("outcome %d = line %d %q, want line %d %q",
				i, got[i].Line, got[i].String(), w.line, w.out)
		}
	}
}

func TestSession_Load_StopsAtFirstError(t *testing.T) {
	input := "I = \\x.x\nI z\n(bad\nI w\n"

	emitted := 0
	s := NewSession(nil)

	err := s.Load(context.Background(), strings.NewReader(input), func(Outcome) error {
		emitted++

		return nil
	})

	var le *LineError
	if !errors.As(err, &le) {
		t.Fatalf("Load error = %v (%T), want *LineError", err, err)
	}

	if le.Line != 3 {
		t.Errorf("Line = %d, want 3", le.Line)
	}

	if !errors.Is(err, ErrParse) {
		t.Errorf("error %v does not match ErrParse", err)
	}

	if emitted != 2 {
		t.Errorf("emitted %d outcomes before the error, want 2", emitted)
	}
}

func TestSession_Load_EmitError_IsReturned(t *testing.T) {
	stop := errors.New("stop")
	s := NewSession(nil)

	err := s.Load(context.Background(), strings.NewReader("a\nb\n"), func(Outcome) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("Load error = %v, want %v", err, stop)
	}
}
