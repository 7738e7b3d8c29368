package cmd

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/churchill/lambda"
)

// expectEnv is the environment an --expect condition is evaluated in.
type expectEnv struct {
	Normal    string   `expr:"normal"`
	Steps     int      `expr:"steps"`
	Size      int      `expr:"size"`
	Free      []string `expr:"free"`
	Numeral   int      `expr:"numeral"`
	IsNumeral bool     `expr:"isNumeral"`
	Boolean   bool     `expr:"boolean"`
	IsBoolean bool     `expr:"isBoolean"`
}

func makeExpectEnv(out lambda.Outcome) expectEnv {
	env := expectEnv{
		Normal: lambda.Render(out.Expr),
		Steps:  out.Steps,
		Size:   lambda.Size(out.Expr),
		Free:   lambda.FreeVars(out.Expr),
	}

	env.Numeral, env.IsNumeral = lambda.DecodeNumeral(out.Expr)
	env.Boolean, env.IsBoolean = lambda.DecodeBool(out.Expr)

	return env
}

// expectation is a compiled boolean condition over an evaluation result.
type expectation struct {
	source  string
	program *vm.Program
}

func compileExpectation(source string) (*expectation, error) {
	program, err := expr.Compile(source, expr.Env(expectEnv{}), expr.AsBool())
	if err != nil {
		return nil, ErrExpectCompile.
			With(slog.String("expect", source)).
			Wrap(err)
	}

	return &expectation{source: source, program: program}, nil
}

// check returns an error unless the condition holds for out.
func (x *expectation) check(out lambda.Outcome) error {
	if x == nil || out.Kind != lambda.LineExpression {
		return nil
	}

	env := makeExpectEnv(out)

	val, err := expr.Run(x.program, env)
	if err != nil {
		return ErrExpectFailed.
			With(slog.String("expect", x.source)).
			Wrap(err)
	}

	if ok, _ := val.(bool); !ok {
		return ErrExpectFailed.With(
			slog.String("expect", x.source),
			slog.String("normal", env.Normal),
			slog.Int("steps", env.Steps),
		)
	}

	return nil
}
