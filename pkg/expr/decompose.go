package expr

import (
	"math/big"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
	"github.com/wildfunctions/symbolic_power/pkg/ntheory"
)

// AsBaseExp returns (b, e) with e structurally equal to b**e. A power of
// a unit fraction, (1/q)**x, is reported as (q, -x).
func AsBaseExp(e Expr) (Expr, Expr) {
	p, ok := e.(*Pow)
	if !ok {
		return e, One
	}
	b, x := p.args[0], p.args[1]
	if n, ok := b.(*Number); ok && !n.IsInt() && n.val.Num().Cmp(big.NewInt(1)) == 0 {
		return NewBigInt(n.Den()), Neg(x)
	}
	return b, x
}

// AsCoeffMul splits off the rational coefficient of a product.
func AsCoeffMul(e Expr) (*Number, Expr) {
	switch x := e.(type) {
	case *Number:
		return x, One
	case *Mul:
		if c, ok := x.args[0].(*Number); ok {
			return c, newMulRaw(x.args[1:])
		}
	}
	return One, e
}

// AsCoeffAdd splits off the rational term of a sum.
func AsCoeffAdd(e Expr) (*Number, Expr) {
	switch x := e.(type) {
	case *Number:
		return x, Zero
	case *Add:
		if c, ok := x.args[0].(*Number); ok {
			return c, newAddRaw(x.args[1:])
		}
	}
	return Zero, e
}

// AsNumerDenom returns (n, d) with e == n/d, d free of negative powers.
func AsNumerDenom(e Expr) (Expr, Expr) {
	switch x := e.(type) {
	case *Number:
		return NewBigInt(x.Num()), NewBigInt(x.Den())
	case *Mul:
		ns := make([]Expr, len(x.args))
		ds := make([]Expr, len(x.args))
		for i, f := range x.args {
			ns[i], ds[i] = AsNumerDenom(f)
		}
		return NewMul(ns...), NewMul(ds...)
	case *Pow:
		return powNumerDenom(x)
	case *Add:
		return addNumerDenom(x)
	}
	return e, One
}

func powNumerDenom(p *Pow) (Expr, Expr) {
	b, e := AsBaseExp(p)
	if b == One {
		return p, One
	}
	n, d := AsNumerDenom(b)
	negExp := holds(e, assume.Negative)
	if _, ok := e.(*Mul); ok && !negExp && !holds(e, assume.Positive) {
		negExp = coeffIsNeg(e)
	}
	intExp := holds(e, assume.Integer)
	// the denominator of sqrt(a/b) cannot be split off unless its sign is
	// known
	if !(holds(d, assume.ExtendedReal) || intExp) {
		n, d = b, One
	}
	switch dnp := d.Is(assume.Nonpositive); {
	case dnp.IsTrue():
		n, d = Neg(n), Neg(d)
	case !dnp.Known() && !intExp:
		n, d = b, One
	}
	if negExp {
		n, d = d, n
		e = Neg(e)
	}
	if holds(e, assume.Infinite) {
		switch {
		case n == One && d != One:
			return n, NewPow(d, e)
		case n != One && d == One:
			return NewPow(n, e), d
		}
	}
	return NewPow(n, e), NewPow(d, e)
}

func addNumerDenom(a *Add) (Expr, Expr) {
	content, prim := addPrimitive(a)
	pa, ok := prim.(*Add)
	if !ok {
		return AsNumerDenom(NewMul(content, prim))
	}
	ncon, dcon := NewBigInt(content.Num()), NewBigInt(content.Den())

	type group struct {
		den   Expr
		numer []Expr
	}
	var groups []*group
	byDen := map[Expr]*group{}
	for _, t := range pa.args {
		n, d := AsNumerDenom(t)
		g := byDen[d]
		if g == nil {
			g = &group{den: d}
			byDen[d] = g
			groups = append(groups, g)
		}
		g.numer = append(g.numer, n)
	}
	if len(groups) == 1 {
		g := groups[0]
		terms := make([]Expr, len(g.numer))
		for i, n := range g.numer {
			terms[i] = NewMul(ncon, n)
		}
		return NewAdd(terms...), NewMul(dcon, g.den)
	}
	dens := make([]Expr, len(groups))
	for i, g := range groups {
		dens[i] = g.den
	}
	terms := make([]Expr, len(groups))
	for i, g := range groups {
		factors := []Expr{NewAdd(g.numer...)}
		for j, d := range dens {
			if j != i {
				factors = append(factors, d)
			}
		}
		terms[i] = NewMul(factors...)
	}
	return NewMul(ncon, NewAdd(terms...)), NewMul(dcon, NewMul(dens...))
}

// addPrimitive returns (c, p) with e == c*p, c the positive rational
// content of the terms of a sum.
func addPrimitive(e Expr) (*Number, Expr) {
	a, ok := e.(*Add)
	if !ok {
		return One, e
	}
	g, l := new(big.Int), big.NewInt(1)
	coeffs := make([]*Number, len(a.args))
	rests := make([]Expr, len(a.args))
	for i, t := range a.args {
		c, r := splitCoeff(t)
		if n, isNum := t.(*Number); isNum {
			c, r = n, One
		}
		coeffs[i], rests[i] = c, r
		g.GCD(nil, nil, g, new(big.Int).Abs(c.val.Num()))
		den := c.val.Denom()
		l.Mul(l, new(big.Int).Quo(den, new(big.Int).GCD(nil, nil, l, den)))
	}
	if g.Sign() == 0 {
		return One, e
	}
	content := NewBigRat(new(big.Rat).SetFrac(g, l))
	if content == One {
		return One, e
	}
	terms := make([]Expr, len(a.args))
	for i := range a.args {
		terms[i] = NewMul(numQuo(coeffs[i], content), rests[i])
	}
	return content, NewAdd(terms...)
}

// AsContentPrimitive returns (c, p) with e == c*p where c is a positive
// rational pulled out of sums, products and rational powers.
func AsContentPrimitive(e Expr) (*Number, Expr) {
	switch x := e.(type) {
	case *Number:
		switch x.Sign() {
		case 0:
			return One, x
		case 1:
			return x, One
		}
		return numNeg(x), NegativeOne
	case *Mul:
		coeff := One
		var args []Expr
		for _, f := range x.args {
			c, p := AsContentPrimitive(f)
			coeff = numMul(coeff, c)
			if p != One {
				args = append(args, p)
			}
		}
		return coeff, NewMul(args...)
	case *Add:
		terms := make([]Expr, len(x.args))
		for i, t := range x.args {
			c, p := AsContentPrimitive(t)
			terms[i] = NewMul(c, p)
		}
		return addPrimitive(NewAdd(terms...))
	case *Pow:
		return powContentPrimitive(x)
	}
	return One, e
}

func powContentPrimitive(p *Pow) (*Number, Expr) {
	b, e := AsBaseExp(p)
	if b == One {
		return One, p
	}
	ce, pe := AsContentPrimitive(e)
	if bn, ok := b.(*Number); ok && bn.Sign() != 0 {
		// b**(ce*(h + t)) = b**i * b**(ce*t + r/q) with ce*h = i + r/q
		h, t := AsCoeffAdd(pe)
		ceh := numMul(ce, h)
		c := NewPow(b, ceh)
		r := Zero
		if _, ok := c.(*Number); !ok {
			i, rem := floorDivmod(ceh.val.Num(), ceh.val.Denom())
			c = NewPow(b, NewBigInt(i))
			r = NewBigInt(rem)
		}
		if cn, ok := c.(*Number); ok {
			shift := numQuo(numQuo(r, ce), NewBigInt(ceh.Den()))
			return cn, NewPow(b, NewMul(ce, NewAdd(t, shift)))
		}
		return One, p
	}
	ex := NewMul(ce, pe)
	hb, tb := AsContentPrimitive(b)
	base := NewMul(hb, tb)
	if en, ok := ex.(*Number); ok {
		if _, isMul := base.(*Mul); isMul {
			c, m := AsCoeffMul(NewPow(hb, en))
			mb, me := AsBaseExp(m)
			if mb == One || me == ex {
				return c, NewPow(NewMul(mb, tb), ex)
			}
		}
	}
	return One, NewPow(base, ex)
}

// AsRealImag returns (re, im) with e == re + I*im. Parts that cannot be
// separated are returned as re(x) and im(x).
func AsRealImag(e Expr) (Expr, Expr) {
	switch x := e.(type) {
	case *Number:
		return x, Zero
	case *Constant:
		if x == I {
			return Zero, One
		}
		if holds(x, assume.ExtendedReal) {
			return x, Zero
		}
	case *Symbol:
		switch {
		case holds(x, assume.ExtendedReal):
			return x, Zero
		case holds(x, assume.Imaginary):
			return Zero, NewMul(NegativeOne, I, x)
		}
	case *Add:
		res := make([]Expr, len(x.args))
		ims := make([]Expr, len(x.args))
		for i, t := range x.args {
			res[i], ims[i] = AsRealImag(t)
		}
		return NewAdd(res...), NewAdd(ims...)
	case *Mul:
		re, im := Expr(One), Expr(Zero)
		for _, f := range x.args {
			a, b := AsRealImag(f)
			re, im = NewAdd(NewMul(re, a), Neg(NewMul(im, b))), NewAdd(NewMul(re, b), NewMul(im, a))
		}
		return re, im
	case *Pow:
		if re, im, ok := powRealImag(x); ok {
			return re, im
		}
	}
	return Re(e), Im(e)
}

// maxBinomialExp bounds the integer exponents expanded by powRealImag.
const maxBinomialExp = 64

func powRealImag(p *Pow) (Expr, Expr, bool) {
	b, e := p.args[0], p.args[1]
	if en, ok := e.(*Number); ok && en.IsInt() {
		n, fits := en.Int64()
		if !fits || n > maxBinomialExp || n < -maxBinomialExp {
			return nil, nil, false
		}
		re, im := AsRealImag(b)
		if im == Zero {
			return p, Zero, true
		}
		if n < 0 {
			mag := NewAdd(NewPow(re, Two), NewPow(im, Two))
			re, im = Quo(re, mag), Neg(Quo(im, mag))
			n = -n
		}
		_, rn := re.(*Number)
		_, in := im.(*Number)
		if rn && in {
			// a Gaussian rational power expands exactly
			z := ExpandMultinomial(NewPow(NewAdd(re, NewMul(im, I)), NewInt(n)))
			if _, isPow := z.(*Pow); !isPow {
				re, im := AsRealImag(z)
				return re, im, true
			}
		}
		// (a + I*b)**n by the binomial theorem
		var res, ims []Expr
		for k := int64(0); k <= n; k++ {
			t := NewMul(NewBigInt(ntheory.Binomial(int(n), int(k))), NewPow(re, NewInt(n-k)), NewPow(im, NewInt(k)))
			switch k % 4 {
			case 0:
				res = append(res, t)
			case 1:
				ims = append(ims, t)
			case 2:
				res = append(res, Neg(t))
			case 3:
				ims = append(ims, Neg(t))
			}
		}
		return NewAdd(res...), NewAdd(ims...), true
	}
	if en, ok := e.(*Number); ok {
		re, im := AsRealImag(b)
		if containsFn(re, FnRe, FnIm) || containsFn(im, FnRe, FnIm) {
			return nil, nil, false
		}
		if holds(im, assume.Zero) && isHalf(en) {
			switch {
			case holds(re, assume.ExtendedReal) && fails(re, assume.ExtendedNegative):
				return p, Zero, true
			case holds(re, assume.ExtendedReal) && fails(re, assume.ExtendedPositive):
				return Zero, NewPow(Neg(b), e), true
			}
		}
		r := Sqrt(NewAdd(NewPow(re, Two), NewPow(im, Two)))
		t := Atan2(im, re)
		rp, tp := NewPow(r, e), NewMul(t, e)
		return NewMul(rp, Cos(tp)), NewMul(rp, Sin(tp)), true
	}
	if b == E {
		re, im := AsRealImag(e)
		m := Exp(re)
		return NewMul(m, Cos(im)), NewMul(m, Sin(im)), true
	}
	return nil, nil, false
}
