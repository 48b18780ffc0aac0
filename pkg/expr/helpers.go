package expr

// Neg returns -x.
func Neg(x Expr) Expr { return NewMul(NegativeOne, x) }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return NewAdd(a, Neg(b)) }

// Quo returns a / b.
func Quo(a, b Expr) Expr { return NewMul(a, NewPow(b, NegativeOne)) }

// Sqrt returns the principal square root of x.
func Sqrt(x Expr) Expr { return NewPow(x, Half) }

// Exp returns E**x.
func Exp(x Expr) Expr { return NewPow(E, x) }

func isAtom(e Expr) bool {
	switch e.(type) {
	case *Number, *Constant, *Symbol:
		return true
	}
	return false
}

// coeffIsNeg reports whether e has an explicit negative numeric
// coefficient.
func coeffIsNeg(e Expr) bool {
	switch x := e.(type) {
	case *Number:
		return x.Sign() < 0
	case *Constant:
		return x == NegativeInfinity
	case *Mul:
		if c, ok := x.args[0].(*Number); ok {
			return c.Sign() < 0
		}
		return x.args[0] == NegativeInfinity
	}
	return false
}

// MulArgs returns the factors of e: the arguments of a Mul, else e alone.
func MulArgs(e Expr) []Expr {
	if m, ok := e.(*Mul); ok {
		return m.args
	}
	return []Expr{e}
}

// AddArgs returns the terms of e: the arguments of an Add, else e alone.
func AddArgs(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.args
	}
	return []Expr{e}
}

// newMulRaw interns a product of factors that are already canonical,
// sorted and mutually irreducible.
func newMulRaw(args []Expr) Expr {
	switch len(args) {
	case 0:
		return One
	case 1:
		return args[0]
	}
	m := &Mul{}
	m.args = args
	m.key = "m" + idList(args)
	return intern(m)
}

func newAddRaw(args []Expr) Expr {
	switch len(args) {
	case 0:
		return Zero
	case 1:
		return args[0]
	}
	a := &Add{}
	a.args = args
	a.key = "a" + idList(args)
	return intern(a)
}

func asNumber(e Expr) (*Number, bool) {
	n, ok := e.(*Number)
	return n, ok
}

func isInteger(e Expr) bool {
	n, ok := e.(*Number)
	return ok && n.IsInt()
}

// has reports whether x occurs among e's factors.
func hasFactor(e, x Expr) bool {
	for _, f := range MulArgs(e) {
		if f == x {
			return true
		}
	}
	return false
}

// withoutFactors returns the product of e's factors with one occurrence of
// each of xs removed.
func withoutFactors(e Expr, xs ...Expr) Expr {
	rest := append([]Expr(nil), MulArgs(e)...)
	for _, x := range xs {
		for i, f := range rest {
			if f == x {
				rest = append(rest[:i], rest[i+1:]...)
				break
			}
		}
	}
	return NewMul(rest...)
}
