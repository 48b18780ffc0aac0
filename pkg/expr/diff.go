package expr

import (
	"sort"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
)

// Has reports whether x occurs as a subexpression of e.
func Has(e, x Expr) bool {
	if x.hdr().free && !e.hdr().free {
		return false
	}
	found := false
	walk(e, func(n Expr) bool {
		if n == x {
			found = true
			return false
		}
		return true
	})
	return found
}

// FreeSymbols returns the symbols of e sorted by name.
func FreeSymbols(e Expr) []*Symbol {
	if !e.hdr().free {
		return nil
	}
	var out []*Symbol
	walk(e, func(n Expr) bool {
		if s, ok := n.(*Symbol); ok {
			out = append(out, s)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].name != out[j].name {
			return out[i].name < out[j].name
		}
		return out[i].id < out[j].id
	})
	return out
}

func hasAny(e Expr, syms []*Symbol) bool {
	if !e.hdr().free {
		return false
	}
	for _, s := range syms {
		if Has(e, s) {
			return true
		}
	}
	return false
}

// Diff returns the derivative of e with respect to s. The second result
// is false when the derivative has no closed form here, as for floor,
// sign and the O-term.
func Diff(e Expr, s *Symbol) (Expr, bool) {
	if !Has(e, s) {
		return Zero, true
	}
	switch x := e.(type) {
	case *Symbol:
		return One, true

	case *Add:
		terms := make([]Expr, len(x.args))
		for i, t := range x.args {
			d, ok := Diff(t, s)
			if !ok {
				return nil, false
			}
			terms[i] = d
		}
		return NewAdd(terms...), true

	case *Mul:
		var terms []Expr
		for i, f := range x.args {
			d, ok := Diff(f, s)
			if !ok {
				return nil, false
			}
			if d == Zero {
				continue
			}
			factors := append([]Expr(nil), x.args...)
			factors[i] = d
			terms = append(terms, NewMul(factors...))
		}
		return NewAdd(terms...), true

	case *Pow:
		return powDiff(x, s)

	case *Func:
		return funcDiff(x, s)
	}
	return Zero, true
}

// powDiff is d/ds b**e = b**e * (e' * log(b) + b' * e / b).
func powDiff(p *Pow, s *Symbol) (Expr, bool) {
	b, e := p.args[0], p.args[1]
	db, ok := Diff(b, s)
	if !ok {
		return nil, false
	}
	de, ok := Diff(e, s)
	if !ok {
		return nil, false
	}
	if de == Zero {
		return NewMul(e, NewPow(b, NewAdd(e, NegativeOne)), db), true
	}
	return NewMul(p, NewAdd(NewMul(de, Log(b)), Quo(NewMul(db, e), b))), true
}

func funcDiff(f *Func, s *Symbol) (Expr, bool) {
	a := f.args[0]
	da, ok := Diff(a, s)
	if !ok {
		return nil, false
	}
	realVar := holds(s, assume.ExtendedReal)
	switch f.fn {
	case FnLog:
		return Quo(da, a), true
	case FnSin:
		return NewMul(Cos(a), da), true
	case FnCos:
		return Neg(NewMul(Sin(a), da)), true
	case FnAbs:
		if holds(a, assume.ExtendedReal) {
			return NewMul(Sign(a), da), true
		}
		if realVar {
			// |a|' = (re(a) re(a)' + im(a) im(a)') / |a|
			return Quo(NewAdd(NewMul(Re(a), Re(da)), NewMul(Im(a), Im(da))), f), true
		}
	case FnRe:
		if realVar {
			return Re(da), true
		}
	case FnIm:
		if realVar {
			return Im(da), true
		}
	case FnConjugate:
		if realVar {
			return Conjugate(da), true
		}
	case FnArg:
		if realVar {
			// arg(a)' = (re(a) im(a)' - im(a) re(a)') / |a|**2
			num := Sub(NewMul(Re(a), Im(da)), NewMul(Im(a), Re(da)))
			return Quo(num, NewPow(Abs(a), Two)), true
		}
	case FnAtan2:
		y, x := f.args[0], f.args[1]
		dx, ok := Diff(x, s)
		if !ok {
			return nil, false
		}
		num := Sub(NewMul(x, da), NewMul(y, dx))
		return Quo(num, NewAdd(NewPow(x, Two), NewPow(y, Two))), true
	}
	return nil, false
}

// IsPolynomial reports whether e is a polynomial in syms. With no syms,
// every symbol of e is a variable.
func IsPolynomial(e Expr, syms ...*Symbol) bool {
	if len(syms) == 0 {
		syms = FreeSymbols(e)
	}
	return isPolynomial(e, syms)
}

func isPolynomial(e Expr, syms []*Symbol) bool {
	if !hasAny(e, syms) {
		return true
	}
	switch x := e.(type) {
	case *Symbol:
		return true
	case *Add, *Mul:
		for _, a := range x.Args() {
			if !isPolynomial(a, syms) {
				return false
			}
		}
		return true
	case *Pow:
		n, ok := x.args[1].(*Number)
		return ok && n.IsInt() && n.Sign() >= 0 && isPolynomial(x.args[0], syms)
	}
	return false
}

// IsRationalFunction reports whether e is a ratio of polynomials in
// syms. With no syms, every symbol of e is a variable.
func IsRationalFunction(e Expr, syms ...*Symbol) bool {
	if len(syms) == 0 {
		syms = FreeSymbols(e)
	}
	return isRationalFunction(e, syms)
}

func isRationalFunction(e Expr, syms []*Symbol) bool {
	if e == NaN || e == ComplexInfinity || e == Infinity || e == NegativeInfinity {
		return false
	}
	if !hasAny(e, syms) {
		return true
	}
	switch x := e.(type) {
	case *Symbol:
		return true
	case *Add, *Mul:
		for _, a := range x.Args() {
			if !isRationalFunction(a, syms) {
				return false
			}
		}
		return true
	case *Pow:
		if hasAny(x.args[1], syms) {
			return false
		}
		return isInteger(x.args[1]) && isRationalFunction(x.args[0], syms)
	}
	return false
}
