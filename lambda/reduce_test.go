package lambda

import (
	"context"
	"errors"
	"testing"
)

const omega = `(\x.x x) (\x.x x)`

func TestEvaluate_ReachesNormalForm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"identity", `(\x.x) y`, "y"},
		{"constant", `(\x.\y.x) a b`, "a"},
		{"already normal", `\x.x`, "(λx.x)"},
		{"free variable", "x", "x"},
		{"under binder", `\z.(\x.x) z`, "(λz.z)"},
		{"argument after head", `f ((\x.x) a)`, "(f a)"},
		{"discarded divergence", `(\x.z) (` + omega + `)`, "z"},
		{"nested redexes", `(\f.\x.f (f x)) (\y.y) a`, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(context.Background(), MustParse(tt.input))
			if err != nil {
				t.Fatalf("Evaluate(%s) error = %v", tt.input, err)
			}

			if r := Render(got); r != tt.want {
				t.Errorf("Evaluate(%s) = %s, want %s", tt.input, r, tt.want)
			}
		})
	}
}

func TestEvaluate_AvoidsCaptureDuringReduction(t *testing.T) {
	got, err := Evaluate(context.Background(), MustParse(`(\x.\y.x) y`))
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}

	if !AlphaEqual(got, MustParse(`\w.y`)) {
		t.Errorf("Evaluate = %s, want alpha-equivalent of λw.y", Render(got))
	}
}

func TestEvaluate_NormalForm_IsFixedPoint(t *testing.T) {
	ctx := context.Background()

	first, err := Evaluate(ctx, MustParse(`(\m.\n.\f.\x.m f (n f x)) (\f.\x.f x) (\f.\x.f (f x))`))
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}

	if _, ok := ReduceOnce(first); ok {
		t.Fatalf("result %s still has a redex", Render(first))
	}

	again, err := Run(ctx, first)
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}

	if again.Steps != 0 || !Equal(again.Normal, first) {
		t.Errorf("re-evaluating normal form took %d steps to %s",
			again.Steps, Render(again.Normal))
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	ctx := context.Background()
	input := MustParse(`(\n.\f.\x.f (n f x)) ((\n.\f.\x.f (n f x)) (\f.\x.x))`)

	a, err := Evaluate(ctx, input)
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}

	b, err := Evaluate(ctx, input)
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}

	if !AlphaEqual(a, b) {
		t.Errorf("results differ: %s vs %s", Render(a), Render(b))
	}

	if n, ok := DecodeNumeral(a); !ok || n != 2 {
		t.Errorf("DecodeNumeral(%s) = %d, %v; want 2, true", Render(a), n, ok)
	}
}

func TestEvaluate_Divergent_ReturnsTerminationError(t *testing.T) {
	_, err := Evaluate(context.Background(), MustParse(omega), WithMaxSteps(25))
	if err == nil {
		t.Fatal("Evaluate of Ω succeeded, want error")
	}

	if !errors.Is(err, ErrTermination) {
		t.Errorf("error %v does not match ErrTermination", err)
	}

	var te *TerminationError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want *TerminationError", err)
	}

	if te.Steps != 25 {
		t.Errorf("Steps = %d, want 25", te.Steps)
	}

	if !AlphaEqual(te.Last, MustParse(omega)) {
		t.Errorf("Last = %s, want Ω", Render(te.Last))
	}
}

func TestRun_MaxSteps_AllowsExactlyCeiling(t *testing.T) {
	ctx := context.Background()
	input := MustParse(`(\x.x) ((\x.x) a)`)

	res, err := Run(ctx, input, WithMaxSteps(2))
	if err != nil {
		t.Fatalf("Run with ceiling 2 error = %v", err)
	}

	if res.Steps != 2 || Render(res.Normal) != "a" {
		t.Errorf("Run = %s in %d steps, want a in 2", Render(res.Normal), res.Steps)
	}

	if _, err := Run(ctx, input, WithMaxSteps(1)); !errors.Is(err, ErrTermination) {
		t.Errorf("Run with ceiling 1 error = %v, want ErrTermination", err)
	}
}

func TestWithMaxSteps_NonPositive_SelectsDefault(t *testing.T) {
	for _, n := range []int{0, -1} {
		if c := makeConfig(WithMaxSteps(n)); c.maxSteps != DefaultMaxSteps {
			t.Errorf("WithMaxSteps(%d) = %d, want %d", n, c.maxSteps, DefaultMaxSteps)
		}
	}
}

func TestRun_WithTrace_ReportsEveryStep(t *testing.T) {
	var steps []string

	_, err := Run(context.Background(), MustParse(`(\x.x) ((\y.y) a)`),
		WithTrace(func(step int, e Expr) {
			steps = append(steps, Render(e))

			if step != len(steps)-1 {
				t.Errorf("step %d reported at position %d", step, len(steps)-1)
			}
		}),
	)
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}

	want := []string{"((λx.x) ((λy.y) a))", "((λy.y) a)", "a"}
	if len(steps) != len(want) {
		t.Fatalf("trace = %v, want %v", steps, want)
	}

	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("trace[%d] = %s, want %s", i, steps[i], want[i])
		}
	}
}

func TestReduceOnce_SearchOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"normal form", `\x.x`, "(λx.x)", false},
		{"root redex first", `(\x.x) ((\y.y) a)`, "((λy.y) a)", true},
		{"function before argument", `((\x.x) f) ((\y.y) a)`, "(f ((λy.y) a))", true},
		{"argument when head is stuck", `f ((\y.y) a)`, "(f a)", true},
		{"under abstraction", `\z.(\y.y) z`, "(λz.z)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ReduceOnce(MustParse(tt.input))
			if ok != tt.ok {
				t.Fatalf("ReduceOnce(%s) ok = %v, want %v", tt.input, ok, tt.ok)
			}

			if r := Render(got); r != tt.want {
				t.Errorf("ReduceOnce(%s) = %s, want %s", tt.input, r, tt.want)
			}
		})
	}
}
