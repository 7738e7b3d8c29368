package lambda

import (
	"strconv"
	"sync/atomic"
)

// freshCounter supplies the numeric suffix of every fresh binder name minted
// by this process. It is never reset.
var freshCounter atomic.Uint64

// fresh returns a new name derived from base that is mentioned in none of
// avoid. The counter alone makes each minted name unique; the check guards
// against input that already spells a name like "x_0".
func fresh(base string, avoid ...Expr) string {
	for {
		name := base + "_" + strconv.FormatUint(freshCounter.Add(1)-1, 10)

		clash := false

		for _, e := range avoid {
			if mentions(name, e) {
				clash = true

				break
			}
		}

		if !clash {
			return name
		}
	}
}

// Substitute returns e with every free occurrence of name replaced by value.
//
// A binder in e whose parameter occurs free in value is renamed to a fresh
// name first, so no free variable of value is captured in the result.
func Substitute(e Expr, name string, value Expr) Expr {
	s := substitution{
		name:  name,
		value: value,
		free:  freeSet(value),
	}

	return s.apply(e)
}

// substitution carries the free-variable set of value, which does not change
// while descending through e.
type substitution struct {
	name  string
	value Expr
	free  map[string]struct{}
}

func (s *substitution) apply(e Expr) Expr {
	switch x := e.(type) {
	case Var:
		if x.Name == s.name {
			return s.value
		}

		return x

	case Abs:
		if x.Param == s.name {
			// Every occurrence of name in the body is bound here.
			return x
		}

		if _, capture := s.free[x.Param]; capture {
			param := fresh(x.Param, x.Body, s.value)

			return Abs{
				Param: param,
				Body:  s.apply(rename(x.Body, x.Param, param)),
			}
		}

		return Abs{Param: x.Param, Body: s.apply(x.Body)}

	case App:
		return App{Fun: s.apply(x.Fun), Arg: s.apply(x.Arg)}
	}

	return e
}

// rename replaces the free occurrences of from in e with to. It is applied to
// the body of a binder of from, so those are exactly the occurrences bound by
// that binder. A nested binder of from shadows it and is left untouched.
func rename(e Expr, from, to string) Expr {
	switch x := e.(type) {
	case Var:
		if x.Name == from {
			return Var{Name: to}
		}

		return x

	case Abs:
		if x.Param == from {
			return x
		}

		return Abs{Param: x.Param, Body: rename(x.Body, from, to)}

	case App:
		return App{Fun: rename(x.Fun, from, to), Arg: rename(x.Arg, from, to)}
	}

	return e
}

// mentions reports whether name appears in e as a variable or a binder.
func mentions(name string, e Expr) bool {
	switch x := e.(type) {
	case Var:
		return x.Name == name
	case Abs:
		return x.Param == name || mentions(name, x.Body)
	case App:
		return mentions(name, x.Fun) || mentions(name, x.Arg)
	}

	return false
}
