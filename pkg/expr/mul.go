package expr

import "github.com/wildfunctions/symbolic_power/pkg/assume"

// maxMulPasses bounds re-flattening when combining powers of a common
// base produces new products.
const maxMulPasses = 6

// NewMul returns the canonical product of args: nested products are
// flattened, numbers are multiplied and powers b**(c1*t), b**(c2*t) of a
// common base and exponent term are combined into b**((c1+c2)*t). Sums
// are never distributed and x**a*x**b stays apart.
func NewMul(args ...Expr) Expr {
	switch len(args) {
	case 0:
		return One
	case 1:
		return args[0]
	}
	args = append([]Expr(nil), args...)
	return memoized(opKey("M", args...), func() Expr { return buildMul(args, 0) })
}

// powKey groups factors b**(c*t) by base and exponent term t.
type powKey struct {
	base, term Expr
}

type baseGroup struct {
	key   powKey
	coeff *Number
	first Expr
	n     int
}

func buildMul(args []Expr, pass int) Expr {
	var factors []Expr
	for _, a := range args {
		factors = append(factors, MulArgs(a)...)
	}

	coeff := One
	var inf, cInf, order bool
	groups := make(map[powKey]*baseGroup)
	var seen []*baseGroup
	for _, f := range factors {
		switch f {
		case NaN:
			return NaN
		case Infinity:
			inf = true
			continue
		case NegativeInfinity:
			inf = true
			coeff = numNeg(coeff)
			continue
		case ComplexInfinity:
			cInf = true
			continue
		}
		if n, ok := f.(*Number); ok {
			coeff = numMul(coeff, n)
			continue
		}
		if fn, ok := f.(*Func); ok && fn.fn == FnOrder {
			order = true
		}
		b, e := f, Expr(One)
		if p, ok := f.(*Pow); ok {
			b, e = p.args[0], p.args[1]
		}
		c, t := AsCoeffMul(e)
		k := powKey{b, t}
		g := groups[k]
		if g == nil {
			g = &baseGroup{key: k, coeff: Zero, first: f}
			groups[k] = g
			seen = append(seen, g)
		}
		g.coeff = numAdd(g.coeff, c)
		g.n++
	}

	if coeff.Sign() == 0 {
		if inf || cInf {
			return NaN
		}
		return Zero
	}

	var out []Expr
	again := false
	for _, g := range seen {
		if g.n == 1 {
			out = append(out, g.first)
			continue
		}
		r := NewPow(g.key.base, NewMul(g.coeff, g.key.term))
		switch x := r.(type) {
		case *Number:
			coeff = numMul(coeff, x)
			continue
		case *Mul:
			again = true
		}
		if r != One {
			out = append(out, r)
		}
	}
	if coeff.Sign() == 0 {
		return Zero
	}
	if again && pass < maxMulPasses {
		out = append(out, coeff)
		if inf {
			out = append(out, Infinity)
		}
		if cInf {
			out = append(out, ComplexInfinity)
		}
		return buildMul(out, pass+1)
	}

	if order {
		// O(f) absorbs constant factors
		coeff = One
	}
	switch {
	case cInf:
		coeff = One
		out = dropFactors(out, func(f Expr) bool { return f.Is(assume.Nonzero).IsTrue() })
		out = append(out, ComplexInfinity)
	case inf:
		neg := coeff.Sign() < 0
		coeff = One
		kept := out[:0]
		for _, f := range out {
			switch {
			case f.Is(assume.Positive).IsTrue():
			case f.Is(assume.Negative).IsTrue():
				neg = !neg
			default:
				kept = append(kept, f)
			}
		}
		out = kept
		if neg {
			out = append(out, NegativeInfinity)
		} else {
			out = append(out, Infinity)
		}
	}

	if coeff != One {
		out = append(out, coeff)
	}
	if len(out) == 0 {
		return One
	}
	if len(out) == 1 {
		return out[0]
	}
	sortArgs(out)
	return newMulRaw(out)
}

func dropFactors(fs []Expr, drop func(Expr) bool) []Expr {
	out := fs[:0]
	for _, f := range fs {
		if !drop(f) {
			out = append(out, f)
		}
	}
	return out
}
