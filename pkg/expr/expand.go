package expr

import (
	"math/big"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
	"github.com/wildfunctions/symbolic_power/pkg/ntheory"
)

// Hints selects the rewrites Expand applies.
type Hints struct {
	PowerExp    bool `yaml:"power_exp"`
	PowerBase   bool `yaml:"power_base"`
	Multinomial bool `yaml:"multinomial"`
	Mul         bool `yaml:"mul"`
	// Force applies power_base and power_exp even when the rewrite is only
	// valid for some values of the symbols.
	Force bool `yaml:"force"`
	// Deep rewrites every subexpression, not only the root.
	Deep bool `yaml:"deep"`
}

// DefaultHints enables every sound rewrite.
func DefaultHints() Hints {
	return Hints{PowerExp: true, PowerBase: true, Multinomial: true, Mul: true, Deep: true}
}

// maxExpandRounds bounds the fixed-point iteration of Expand.
const maxExpandRounds = 20

// Expand applies the selected rewrites until the expression stops
// changing. Multinomial runs before mul so that polynomials expand fully.
func Expand(e Expr, h Hints) Expr {
	step := func(x Expr) Expr {
		if h.Multinomial {
			x = ExpandMultinomial(x)
		}
		if h.Mul {
			x = ExpandMul(x)
		}
		if h.PowerBase {
			x = ExpandPowerBase(x, h.Force)
		}
		if h.PowerExp {
			x = expandPowerExp(x, h.Force)
		}
		return x
	}
	for i := 0; i < maxExpandRounds; i++ {
		var next Expr
		if h.Deep {
			next = Transform(e, step)
		} else {
			next = step(e)
		}
		if next == e {
			return e
		}
		e = next
	}
	logger().Debug("expand stopped before a fixed point")
	return e
}

// ExpandPowerExp rewrites a**(n + m) as a**n * a**m when that is valid
// for every a.
func ExpandPowerExp(e Expr) Expr { return expandPowerExp(e, false) }

func expandPowerExp(e Expr, force bool) Expr {
	p, ok := e.(*Pow)
	if !ok {
		return e
	}
	b, x := p.args[0], p.args[1]
	a, ok := x.(*Add)
	if !ok {
		return e
	}
	if !(force || fails(b, assume.Zero) || allSameSign(a.args)) {
		return e
	}
	out := make([]Expr, len(a.args))
	for i, t := range a.args {
		out[i] = NewPow(b, t)
	}
	return NewMul(out...)
}

func allSameSign(ts []Expr) bool {
	return allHold(ts, assume.Nonnegative) || allHold(ts, assume.Nonpositive)
}

// ExpandPowerBase rewrites (a*b)**n as a**n * b**n for the factors where
// that is valid. With force every factor is split.
func ExpandPowerBase(e Expr, force bool) Expr {
	p, ok := e.(*Pow)
	if !ok {
		return e
	}
	m, ok := p.args[0].(*Mul)
	if !ok {
		return e
	}
	x := p.args[1]

	var nonneg, neg, other []Expr
	imag := 0
	for _, f := range m.args {
		switch {
		case f == I:
			imag++
		case holds(f, assume.Polar):
			nonneg = append(nonneg, f)
		case holds(f, assume.ExtendedReal) && fails(f, assume.ExtendedNegative):
			nonneg = append(nonneg, f)
		case holds(f, assume.Negative):
			neg = append(neg, f)
		default:
			other = append(other, f)
		}
	}
	switch imag % 4 {
	case 1:
		other = append(other, I)
	case 2, 3:
		// I*I = -1 cancels against a negative factor
		if len(neg) > 0 {
			if n := Neg(neg[len(neg)-1]); n != One {
				nonneg = append(nonneg, n)
			}
			neg = neg[:len(neg)-1]
		} else {
			neg = append(neg, NegativeOne)
		}
		if imag%4 == 3 {
			other = append(other, I)
		}
	}

	var cargs []Expr
	if force || holds(x, assume.Integer) {
		cargs = append(append(nonneg, neg...), other...)
		other = nil
	} else {
		switch {
		case len(neg) > 1:
			o := Expr(One)
			if len(other) == 0 {
				if _, ok := neg[0].(*Number); ok {
					o = neg[0]
					neg = neg[1:]
				}
			}
			if len(neg)%2 == 1 {
				o = Neg(o)
			}
			for _, n := range neg {
				nonneg = append(nonneg, Neg(n))
			}
			if o != One {
				other = append(other, o)
			}
		case len(neg) == 1 && len(other) > 0:
			if _, ok := neg[0].(*Number); ok && neg[0] != NegativeOne {
				other = append(other, NegativeOne)
				nonneg = append(nonneg, Neg(neg[0]))
			} else {
				other = append(other, neg...)
			}
		default:
			other = append(other, neg...)
		}
		cargs = nonneg
	}

	out := make([]Expr, 0, len(cargs)+1)
	for _, c := range cargs {
		if c == m {
			// the negated factors can regroup into the base itself
			out = append(out, NewPowUnevaluated(c, x))
			continue
		}
		out = append(out, NewPow(c, x))
	}
	if len(other) > 0 {
		ob := NewMul(other...)
		if _, ok := ob.(*Mul); ok {
			out = append(out, NewPowUnevaluated(ob, x))
		} else {
			out = append(out, NewPow(ob, x))
		}
	}
	return NewMul(out...)
}

// Limits on the size of a multinomial expansion.
const (
	maxMultinomialExp   = 256
	maxMultinomialTerms = 1 << 12
)

// ExpandMultinomial expands (a + b + ...)**n for a positive rational n,
// and 1/(a + b)**n for a negative one with |n| > 1.
func ExpandMultinomial(e Expr) Expr {
	p, ok := e.(*Pow)
	if !ok {
		return e
	}
	b, x := p.args[0], p.args[1]
	xn, isNum := x.(*Number)
	base, isAdd := b.(*Add)
	switch {
	case isNum && isAdd && xn.Sign() > 0:
		return multinomialPow(p, base, xn)
	case isNum && isAdd && xn.Sign() < 0 && new(big.Int).Abs(xn.val.Num()).Cmp(xn.val.Denom()) > 0:
		pos := NewPow(b, numNeg(xn))
		return NewPow(ExpandMultinomial(pos), NegativeOne)
	}
	if bn, ok := b.(*Number); ok {
		if a, ok := x.(*Add); ok && (fails(bn, assume.Zero) || allSameSign(a.args)) {
			var coeff, tail []Expr
			for _, t := range a.args {
				if _, ok := t.(*Number); ok {
					coeff = append(coeff, NewPow(bn, t))
				} else {
					tail = append(tail, t)
				}
			}
			if len(coeff) > 0 {
				return NewMul(append(coeff, NewPow(bn, NewAdd(tail...)))...)
			}
		}
	}
	return e
}

func multinomialPow(p *Pow, base *Add, xn *Number) Expr {
	if !xn.IsInt() {
		k, _ := floorDivmod(xn.val.Num(), xn.val.Denom())
		if k.Sign() == 0 {
			return p
		}
		radical := NewPow(base, numAdd(xn, numNeg(NewBigInt(k))))
		whole := ExpandMultinomial(NewPow(base, NewBigInt(k)))
		terms := AddArgs(whole)
		out := make([]Expr, len(terms))
		for i, t := range terms {
			out[i] = NewMul(t, radical)
		}
		return NewAdd(out...)
	}
	n, ok := xn.Int64()
	if !ok || n > maxMultinomialExp {
		return p
	}

	var order, rest []Expr
	for _, t := range base.args {
		if _, ok := isFn(t, FnOrder); ok {
			order = append(order, t)
		} else {
			rest = append(rest, t)
		}
	}
	if len(order) > 0 {
		f, o := NewAdd(rest...), NewAdd(order...)
		if n == 2 {
			return NewAdd(ExpandMultinomial(NewPow(f, Two)), NewMul(Two, f, o))
		}
		g := ExpandMultinomial(NewPow(f, NewInt(n-1)))
		return NewAdd(ExpandMul(NewMul(f, g)), NewMul(NewInt(n), g, o))
	}

	if !base.hdr().free {
		if z := gaussianPow(base, n); z != nil {
			return z
		}
	}

	// the expansion has C(n+m-1, m-1) terms
	if ntheory.Binomial(int(n)+len(rest)-1, len(rest)-1).Cmp(big.NewInt(maxMultinomialTerms)) > 0 {
		return p
	}
	terms, err := ntheory.MultinomialCoefficients(len(rest), int(n))
	if err != nil {
		return p
	}
	out := make([]Expr, len(terms))
	for i, t := range terms {
		factors := []Expr{NewBigInt(t.Coeff)}
		for j, k := range t.Exponents {
			if k > 0 {
				factors = append(factors, NewPow(rest[j], NewInt(int64(k))))
			}
		}
		out[i] = NewMul(factors...)
	}
	return NewAdd(out...)
}

// gaussianPow computes (a + b*I)**n exactly for rational a and b by
// repeated squaring over the integers.
func gaussianPow(base *Add, n int64) Expr {
	re, im := AsRealImag(base)
	rn, ok1 := re.(*Number)
	in, ok2 := im.(*Number)
	if !ok1 || !ok2 {
		return nil
	}
	// scale to integers: (a + b*I)/k with k = lcm of denominators
	k := new(big.Int).Mul(rn.Den(), in.Den())
	k.Quo(k, new(big.Int).GCD(nil, nil, rn.Den(), in.Den()))
	a := new(big.Int).Mul(rn.Num(), new(big.Int).Quo(k, rn.Den()))
	b := new(big.Int).Mul(in.Num(), new(big.Int).Quo(k, in.Den()))
	if int64(a.BitLen()+b.BitLen()+1)*n > maxPowBits {
		return nil
	}
	c, d := big.NewInt(1), new(big.Int)
	for m := n; m > 0; m >>= 1 {
		if m&1 == 1 {
			c, d = new(big.Int).Sub(new(big.Int).Mul(a, c), new(big.Int).Mul(b, d)),
				new(big.Int).Add(new(big.Int).Mul(b, c), new(big.Int).Mul(a, d))
		}
		a, b = new(big.Int).Sub(new(big.Int).Mul(a, a), new(big.Int).Mul(b, b)),
			new(big.Int).Mul(big.NewInt(2), new(big.Int).Mul(a, b))
	}
	kn := new(big.Int).Exp(k, big.NewInt(n), nil)
	reOut := NewBigRat(new(big.Rat).SetFrac(c, kn))
	imOut := NewBigRat(new(big.Rat).SetFrac(d, kn))
	return NewAdd(reOut, NewMul(imOut, I))
}

// maxMulTerms bounds the number of terms ExpandMul distributes into.
const maxMulTerms = 1 << 14

// ExpandMul distributes a product over the sums among its factors.
func ExpandMul(e Expr) Expr {
	m, ok := e.(*Mul)
	if !ok {
		return e
	}
	terms := []Expr{One}
	for _, f := range m.args {
		fs := AddArgs(f)
		if len(terms)*len(fs) > maxMulTerms {
			return e
		}
		next := make([]Expr, 0, len(terms)*len(fs))
		for _, t := range terms {
			for _, g := range fs {
				next = append(next, NewMul(t, g))
			}
		}
		terms = next
	}
	return NewAdd(terms...)
}
