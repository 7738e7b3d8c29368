package lambda_test

import (
	"context"
	"fmt"

	"github.com/ardnew/churchill/lambda"
)

func ExampleEvaluate() {
	e := lambda.MustParse(`(\x.\y.x) a b`)

	nf, err := lambda.Evaluate(context.Background(), e)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(lambda.Render(nf))
	// Output: a
}

func ExampleExpand() {
	env := lambda.Env{"I": lambda.MustParse(`\x.x`)}

	e := lambda.Expand(lambda.MustParse("I z"), env)
	fmt.Println(lambda.Render(e))

	nf, _ := lambda.Evaluate(context.Background(), e)
	fmt.Println(lambda.Render(nf))
	// Output:
	// ((λx.x) z)
	// z
}

func ExampleParse_error() {
	_, err := lambda.Parse("(x")
	fmt.Println(err)
	// Output: expected ')' at pos 2
}

func ExampleSession() {
	s := lambda.NewSession(nil)
	ctx := context.Background()

	for _, line := range []string{
		`TRUE = \a.\b.a`,
		`NOT = \p.\a.\b.p b a`,
		"NOT TRUE",
	} {
		out, err := s.Exec(ctx, line)
		if err != nil {
			fmt.Println(err)

			return
		}

		fmt.Println(out)
	}
	// Output:
	// Defined TRUE = (λa.(λb.a))
	// Defined NOT = (λp.(λa.(λb.((p b) a))))
	// (λa.(λb.b))
}
