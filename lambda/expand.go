package lambda

import (
	"maps"
	"slices"

	"github.com/samber/lo"
)

// Env maps definition names to fully expanded expressions.
type Env map[string]Expr

// Define binds name to e, replacing any previous binding.
func (env Env) Define(name string, e Expr) { env[name] = e }

// Lookup returns the definition bound to name.
func (env Env) Lookup(name string) (Expr, bool) {
	e, ok := env[name]

	return e, ok
}

// Names returns the defined names in sorted order.
func (env Env) Names() []string {
	names := lo.Keys(env)
	slices.Sort(names)

	return names
}

// Clone returns a shallow copy of env. Expressions are immutable, so the
// copy can be extended independently of the original.
func (env Env) Clone() Env {
	if env == nil {
		return Env{}
	}

	return maps.Clone(env)
}

// Expand replaces every free variable of e that names a definition in env
// with that definition, itself expanded. Bound variables and unknown names
// are left untouched, and env is never modified.
//
// Definitions are inserted verbatim without alpha-renaming. A free variable of
// a definition that coincides with an enclosing binder of e is captured by
// that binder.
//
// A definition that refers back to itself, directly or through other
// definitions, is left as a variable at the point of recursion.
func Expand(e Expr, env Env) Expr {
	if len(env) == 0 {
		return e
	}

	x := expander{
		env:    env,
		bound:  map[string]int{},
		active: map[string]bool{},
	}

	return x.expand(e)
}

type expander struct {
	env    Env
	bound  map[string]int  // binders enclosing the current node
	active map[string]bool // definitions currently being expanded
}

func (x *expander) expand(e Expr) Expr {
	switch t := e.(type) {
	case Var:
		if x.bound[t.Name] > 0 || x.active[t.Name] {
			return t
		}

		def, ok := x.env[t.Name]
		if !ok {
			return t
		}

		// A definition is expanded in an empty scope: binders of the
		// expression around it do not hide names inside it.
		outer := x.bound
		x.bound = map[string]int{}
		x.active[t.Name] = true

		out := x.expand(def)

		delete(x.active, t.Name)
		x.bound = outer

		return out

	case Abs:
		x.bound[t.Param]++
		body := x.expand(t.Body)
		x.bound[t.Param]--

		return Abs{Param: t.Param, Body: body}

	case App:
		return App{Fun: x.expand(t.Fun), Arg: x.expand(t.Arg)}
	}

	return e
}
