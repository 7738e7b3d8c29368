// Package lambda implements a normal-order evaluator for the untyped lambda
// calculus.
//
// An input string is parsed into an expression tree, free names may be
// expanded from an environment of definitions, and the tree is reduced to
// beta-normal form by repeatedly contracting the leftmost-outermost redex.
//
// # Grammar
//
// Informal EBNF:
//
//	Expr        → Lambda
//	Lambda      → ('\' | 'λ') Name '.' Lambda | Application
//	Application → Atom Atom*
//	Atom        → '(' Expr ')' | Name
//	Name        → (letter | '_') (letter | digit | '_')*
//
// Application is left-associative and a lambda body extends as far right as
// possible, so `\x.\y.x y` is `(λx.(λy.(x y)))`.
//
// # Example
//
//	e, err := lambda.Parse(`(\x.\y.x) a b`)
//	if err != nil {
//		return err
//	}
//
//	nf, err := lambda.Evaluate(ctx, e)
//	if err != nil {
//		return err // *TerminationError when the ceiling is reached
//	}
//
//	fmt.Println(nf) // a
//
// # Definitions
//
// A [Session] keeps an [Env] of named definitions across inputs. Lines of the
// form `name = expr` bind a name; every other non-empty line is evaluated
// after its free names are replaced by their definitions (see [Expand]).
// Text following '#' is a comment.
//
//	I = \x.x
//	K = \x.\y.x
//	K I z   # (λx.x)
//
// # Capture
//
// [Substitute] renames binders on demand so that no free variable of the
// substituted value is captured. [Expand] does not: it splices definitions
// into the tree verbatim, so a definition with a free name that matches an
// enclosing binder of the expanded expression is captured by that binder.
// Definitions are normally closed terms, where this cannot happen.
package lambda
