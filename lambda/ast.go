package lambda

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Expr is a lambda calculus expression: exactly one of [Var], [Abs] or
// [App]. Expressions are immutable values; every transformation in this
// package returns a new tree.
type Expr interface {
	// String renders the expression in canonical, fully parenthesized form.
	String() string

	writeTo(b *strings.Builder)
}

// Var is a reference to a binder or a free identifier.
type Var struct {
	Name string
}

// Abs is a function literal binding Param inside Body.
type Abs struct {
	Param string
	Body  Expr
}

// App applies Fun to Arg.
type App struct {
	Fun Expr
	Arg Expr
}

func (v Var) String() string { return v.Name }

func (a Abs) String() string { return Render(a) }

func (a App) String() string { return Render(a) }

func (v Var) writeTo(b *strings.Builder) { b.WriteString(v.Name) }

func (a Abs) writeTo(b *strings.Builder) {
	b.WriteString("(λ")
	b.WriteString(a.Param)
	b.WriteByte('.')
	a.Body.writeTo(b)
	b.WriteByte(')')
}

func (a App) writeTo(b *strings.Builder) {
	b.WriteByte('(')
	a.Fun.writeTo(b)
	b.WriteByte(' ')
	a.Arg.writeTo(b)
	b.WriteByte(')')
}

// Render returns the canonical printed form of e:
//
//	Var(n)    → n
//	Abs(p, b) → (λp.b)
//	App(f, a) → (f a)
func Render(e Expr) string {
	if e == nil {
		return ""
	}

	var b strings.Builder

	e.writeTo(&b)

	return b.String()
}

// Equal reports whether a and b are structurally identical, including the
// names of bound variables.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case Var:
		y, ok := b.(Var)

		return ok && x.Name == y.Name

	case Abs:
		y, ok := b.(Abs)

		return ok && x.Param == y.Param && Equal(x.Body, y.Body)

	case App:
		y, ok := b.(App)

		return ok && Equal(x.Fun, y.Fun) && Equal(x.Arg, y.Arg)
	}

	return a == nil && b == nil
}

// AlphaEqual reports whether a and b are equal up to consistent renaming of
// bound variables.
func AlphaEqual(a, b Expr) bool {
	return alphaEqual(a, b, map[string]int{}, map[string]int{}, 0)
}

// alphaEqual compares binders by the depth at which they were introduced.
// Free variables compare by name.
func alphaEqual(a, b Expr, da, db map[string]int, depth int) bool {
	switch x := a.(type) {
	case Var:
		y, ok := b.(Var)
		if !ok {
			return false
		}

		ix, boundX := da[x.Name]
		iy, boundY := db[y.Name]

		if boundX || boundY {
			return boundX && boundY && ix == iy
		}

		return x.Name == y.Name

	case Abs:
		y, ok := b.(Abs)
		if !ok {
			return false
		}

		prevX, hadX := da[x.Param]
		prevY, hadY := db[y.Param]

		da[x.Param] = depth
		db[y.Param] = depth

		eq := alphaEqual(x.Body, y.Body, da, db, depth+1)

		restore(da, x.Param, prevX, hadX)
		restore(db, y.Param, prevY, hadY)

		return eq

	case App:
		y, ok := b.(App)

		return ok &&
			alphaEqual(x.Fun, y.Fun, da, db, depth) &&
			alphaEqual(x.Arg, y.Arg, da, db, depth)
	}

	return a == nil && b == nil
}

func restore(m map[string]int, key string, prev int, had bool) {
	if had {
		m[key] = prev
	} else {
		delete(m, key)
	}
}

// Size returns the number of nodes in e.
func Size(e Expr) int {
	switch x := e.(type) {
	case Var:
		return 1
	case Abs:
		return 1 + Size(x.Body)
	case App:
		return 1 + Size(x.Fun) + Size(x.Arg)
	}

	return 0
}

// FreeVars returns the sorted names of the free variables of e.
func FreeVars(e Expr) []string {
	names := lo.Keys(freeSet(e))
	slices.Sort(names)

	return names
}

// freeSet computes the free-variable set of e.
func freeSet(e Expr) map[string]struct{} {
	set := make(map[string]struct{})
	collectFree(e, map[string]int{}, set)

	return set
}

// collectFree adds every variable of e that is not counted in bound.
func collectFree(e Expr, bound map[string]int, set map[string]struct{}) {
	switch x := e.(type) {
	case Var:
		if bound[x.Name] == 0 {
			set[x.Name] = struct{}{}
		}

	case Abs:
		bound[x.Param]++
		collectFree(x.Body, bound, set)
		bound[x.Param]--

	case App:
		collectFree(x.Fun, bound, set)
		collectFree(x.Arg, bound, set)
	}
}
