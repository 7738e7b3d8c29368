package lambda

// DecodeNumeral reports the natural number n if e is the Church numeral
// λf.λx.f (f (… (f x))) with n applications of f.
func DecodeNumeral(e Expr) (int, bool) {
	outer, ok := e.(Abs)
	if !ok {
		return 0, false
	}

	inner, ok := outer.Body.(Abs)
	if !ok || inner.Param == outer.Param {
		return 0, false
	}

	f, x := outer.Param, inner.Param

	n := 0

	for body := inner.Body; ; n++ {
		switch t := body.(type) {
		case Var:
			return n, t.Name == x

		case App:
			if fun, ok := t.Fun.(Var); !ok || fun.Name != f {
				return 0, false
			}

			body = t.Arg

		default:
			return 0, false
		}
	}
}

// DecodeBool reports the truth value of e if e is a Church boolean:
// λa.λb.a is true and λa.λb.b is false.
func DecodeBool(e Expr) (value bool, ok bool) {
	outer, ok := e.(Abs)
	if !ok {
		return false, false
	}

	inner, ok := outer.Body.(Abs)
	if !ok || inner.Param == outer.Param {
		return false, false
	}

	v, ok := inner.Body.(Var)
	if !ok {
		return false, false
	}

	switch v.Name {
	case outer.Param:
		return true, true
	case inner.Param:
		return false, true
	}

	return false, false
}

// Numeral returns the Church numeral for n, using f and x as binder names.
// Negative n is treated as zero.
func Numeral(n int) Expr {
	var body Expr = Var{Name: "x"}

	for range max(n, 0) {
		body = App{Fun: Var{Name: "f"}, Arg: body}
	}

	return Abs{Param: "f", Body: Abs{Param: "x", Body: body}}
}
