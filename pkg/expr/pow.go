package expr

import (
	"math/big"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
	"github.com/wildfunctions/symbolic_power/pkg/ntheory"
)

// NewPow returns base**exp in canonical form. The first matching rule
// wins:
//
//	x**0 = 1, x**1 = x
//	(-x)**n = x**n or -(x**n) for even or odd integer n
//	nan**x = x**nan = nan
//	1**x = 1, or nan when x is infinite
//	b**(c*n/log(b)) = E**(c*n)
//	base specific rules (numbers, constants, nested powers, products)
//
// Anything left is interned as a plain Pow node.
func NewPow(base, exp Expr) Expr {
	return memoized(opKey("P", base, exp), func() Expr { return buildPow(base, exp) })
}

// NewPowUnevaluated returns the Pow node base**exp without applying any
// rule.
func NewPowUnevaluated(base, exp Expr) Expr {
	p := &Pow{}
	p.args = []Expr{base, exp}
	p.key = "p" + idList(p.args)
	return intern(p)
}

func buildPow(b, e Expr) Expr {
	switch e {
	case Zero:
		return One
	case One:
		return b
	}
	if coeffIsNeg(b) && e.Is(assume.Integer).IsTrue() {
		switch {
		case e.Is(assume.Even).IsTrue():
			b = Neg(b)
		case e.Is(assume.Odd).IsTrue():
			return Neg(NewPow(Neg(b), e))
		}
	}
	if b == NaN || e == NaN {
		return NaN
	}
	if b == One {
		if e.Is(assume.Infinite).IsTrue() {
			return NaN
		}
		return One
	}
	if !isAtom(e) && b != E {
		if r := disguisedExp(b, e); r != nil {
			return r
		}
	}
	if r := powRule(b, e); r != nil {
		return r
	}
	return NewPowUnevaluated(b, e)
}

// disguisedExp recognizes b**(c*n/log(b)) and the branch form
// b**(c*n/(log(-b) + s*I*pi)) as E**(c*n).
func disguisedExp(b, e Expr) Expr {
	c, ex := AsCoeffMul(e)
	num, den := fraction(ex)
	if den == One {
		return nil
	}
	if f, ok := den.(*Func); ok && f.fn == FnLog && f.args[0] == b {
		return NewPow(E, NewMul(c, num))
	}
	if _, ok := den.(*Add); ok {
		s, ok := Sign(Im(b)).(*Number)
		if ok && s.Sign() != 0 && den == NewAdd(Log(Neg(b)), NewMul(s, I, Pi)) {
			return NewPow(E, NewMul(c, num))
		}
	}
	return nil
}

// fraction splits a product by the sign of each factor's exponent.
func fraction(e Expr) (num, den Expr) {
	var ns, ds []Expr
	for _, f := range MulArgs(e) {
		switch x := f.(type) {
		case *Pow:
			if coeffIsNeg(x.args[1]) {
				ds = append(ds, NewPow(x.args[0], Neg(x.args[1])))
				continue
			}
		case *Number:
			if !x.IsInt() {
				ns = append(ns, NewBigInt(x.Num()))
				ds = append(ds, NewBigInt(x.Den()))
				continue
			}
		}
		ns = append(ns, f)
	}
	return NewMul(ns...), NewMul(ds...)
}

func powRule(b, e Expr) Expr {
	switch x := b.(type) {
	case *Number:
		if x.Sign() == 0 {
			return zeroPow(e)
		}
		return numberPow(x, e)
	case *Constant:
		switch x {
		case I:
			return imagUnitPow(e)
		case Infinity:
			return infinityPow(e)
		case NegativeInfinity:
			return negInfinityPow(e)
		case ComplexInfinity:
			return complexInfinityPow(e)
		case E:
			return expPow(e)
		}
	case *Pow:
		return recombine(x, e)
	case *Mul:
		return mulPow(x, e)
	case *Func:
		if x.fn == FnAbs && x.args[0].Is(assume.ExtendedReal).IsTrue() && e.Is(assume.Even).IsTrue() {
			return NewPow(x.args[0], e)
		}
	}
	return nil
}

func zeroPow(e Expr) Expr {
	switch {
	case e.Is(assume.ExtendedPositive).IsTrue():
		return Zero
	case e.Is(assume.ExtendedNegative).IsTrue():
		return ComplexInfinity
	case e.Is(assume.ExtendedReal).IsFalse():
		return NaN
	}
	// 0**(-c*x) = zoo**x even when x is zero
	c, terms := AsCoeffMul(e)
	switch {
	case c.Sign() < 0:
		return NewPow(ComplexInfinity, terms)
	case c != One:
		return NewPow(Zero, terms)
	}
	return nil
}

var (
	ratOne    = big.NewRat(1, 1)
	ratNegOne = big.NewRat(-1, 1)
)

func numberPow(b *Number, e Expr) Expr {
	if b == NegativeOne {
		return negOnePow(e)
	}
	switch e {
	case Infinity:
		switch {
		case b.val.Cmp(ratOne) > 0:
			return Infinity
		case b.val.Cmp(ratNegOne) < 0:
			return ComplexInfinity
		}
		return Zero
	case NegativeInfinity:
		return NewPow(numQuo(One, b), Infinity)
	}
	en, ok := e.(*Number)
	if !ok {
		return nil
	}
	if en.Sign() < 0 {
		ne := numNeg(en)
		if b.Sign() < 0 {
			return NewMul(NewPow(NegativeOne, en), NewPow(numQuo(One, numNeg(b)), ne))
		}
		return NewPow(numQuo(One, b), ne)
	}
	if en.IsInt() {
		if r := numPowInt(b, en.val.Num()); r != nil {
			return r
		}
		return nil
	}
	if b.IsInt() {
		return intRootPow(b, en)
	}
	return ratRootPow(b, en)
}

// maxRootExp bounds the numerator and denominator of rational exponents
// the root extraction works on.
const maxRootExp = 1 << 20

func smallFrac(e *Number) (p, q int64, ok bool) {
	if !e.val.Num().IsInt64() || !e.val.Denom().IsInt64() {
		return 0, 0, false
	}
	p, q = e.val.Num().Int64(), e.val.Denom().Int64()
	return p, q, p > -maxRootExp && p < maxRootExp && q < maxRootExp
}

// intRootPow evaluates b**(p/q) for an integer b and a positive
// non-integer exponent by pulling perfect powers out of the radical.
func intRootPow(b, e *Number) Expr {
	neg := b.Sign() < 0
	if neg && isHalf(e) {
		return NewMul(I, NewPow(numNeg(b), e))
	}
	p, q, ok := smallFrac(e)
	if !ok {
		return nil
	}
	abs := new(big.Int).Abs(b.val.Num())
	var result Expr
	if x, exact, err := ntheory.IntegerNthRoot(abs, int(q)); err == nil && exact {
		r := numPowInt(NewBigInt(x), big.NewInt(p))
		if r == nil {
			return nil
		}
		result = r
	} else if result = extractRadical(abs, p, q); result == nil {
		return nil
	}
	if neg {
		result = NewMul(result, NewPow(NegativeOne, e))
	}
	return result
}

// extractRadical rewrites n**(p/q) as k * m**(a/q) * (radicals with
// reduced exponents), or returns nil when nothing comes out.
func extractRadical(n *big.Int, p, q int64) Expr {
	fs, err := ntheory.Factor(n)
	if err != nil {
		return nil
	}
	type rem struct {
		prime *big.Int
		exp   int64
	}
	outInt := big.NewInt(1)
	var outRad []Expr
	var left []rem
	for _, f := range fs {
		ex := int64(f.Exp) * p
		divE, divM := ex/q, ex%q
		if divE > 0 {
			if int64(f.Base.BitLen())*divE > maxPowBits {
				return nil
			}
			outInt.Mul(outInt, new(big.Int).Exp(f.Base, big.NewInt(divE), nil))
		}
		if divM > 0 {
			if g := gcd64(divM, q); g != 1 {
				outRad = append(outRad, NewPow(NewBigInt(f.Base), NewRat(divM/g, q/g)))
			} else {
				left = append(left, rem{f.Base, divM})
			}
		}
	}
	var g int64
	for _, r := range left {
		g = gcd64(g, r.exp)
	}
	rest := big.NewInt(1)
	for _, r := range left {
		rest.Mul(rest, new(big.Int).Exp(r.prime, big.NewInt(r.exp/g), nil))
	}
	if rest.Cmp(n) == 0 && outInt.Cmp(big.NewInt(1)) == 0 && len(outRad) == 0 {
		return nil
	}
	args := append([]Expr{NewBigInt(outInt)}, outRad...)
	if len(left) > 0 {
		args = append(args, NewPow(NewBigInt(rest), NewRat(g, q)))
	}
	return NewMul(args...)
}

func gcd64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// ratRootPow evaluates (n/d)**(p/q) as n**(p/q) * d**(r/q) / d**k with
// 0 < r < q, so that only integer bases carry radicals.
func ratRootPow(b, e *Number) Expr {
	p, q, ok := smallFrac(e)
	if !ok {
		return nil
	}
	n, d := NewBigInt(b.Num()), NewBigInt(b.Den())
	k := p / q
	var r int64
	if k > 0 {
		k++
		r = k*q - p
	} else {
		k = 1
		r = q - p
	}
	inv := numPowInt(numQuo(One, d), big.NewInt(k))
	if inv == nil {
		return nil
	}
	args := []Expr{NewPow(d, NewRat(r, q)), inv}
	if n != One {
		args = append(args, NewPow(n, e))
	}
	return NewMul(args...)
}

func negOnePow(e Expr) Expr {
	switch {
	case e.Is(assume.Odd).IsTrue():
		return NegativeOne
	case e.Is(assume.Even).IsTrue():
		return One
	}
	switch e {
	case Infinity, NegativeInfinity:
		return NaN
	}
	en, ok := e.(*Number)
	if !ok {
		return nil
	}
	if isHalf(en) {
		return I
	}
	if en.val.Denom().Cmp(big.NewInt(2)) == 0 {
		return NewPow(I, NewBigInt(en.Num()))
	}
	i, r := floorDivmod(en.val.Num(), en.val.Denom())
	if i.Sign() == 0 {
		return nil
	}
	return NewMul(
		NewPow(NegativeOne, NewBigInt(i)),
		NewPow(NegativeOne, NewBigRat(new(big.Rat).SetFrac(r, en.Den()))),
	)
}

func imagUnitPow(e Expr) Expr {
	en, ok := e.(*Number)
	if !ok {
		return nil
	}
	if en.IsInt() {
		_, m := floorDivmod(en.val.Num(), big.NewInt(4))
		switch m.Int64() {
		case 0:
			return One
		case 1:
			return I
		case 2:
			return NegativeOne
		}
		return Neg(I)
	}
	// e = 2*i + r with 0 <= r < 2
	den := en.Den()
	i, rem := floorDivmod(en.val.Num(), new(big.Int).Lsh(den, 1))
	if i.Sign() == 0 {
		return nil
	}
	rv := NewPowUnevaluated(I, NewBigRat(new(big.Rat).SetFrac(rem, den)))
	if i.Bit(0) == 1 {
		return NewMul(NegativeOne, rv)
	}
	return rv
}

func infinityPow(e Expr) Expr {
	switch {
	case e.Is(assume.ExtendedPositive).IsTrue():
		return Infinity
	case e.Is(assume.ExtendedNegative).IsTrue():
		return Zero
	case e == ComplexInfinity:
		return NaN
	}
	if e.Is(assume.ExtendedReal).IsFalse() && !e.hdr().free {
		re := Re(e)
		switch {
		case re.Is(assume.Positive).IsTrue():
			return ComplexInfinity
		case re.Is(assume.Negative).IsTrue():
			return Zero
		case re.Is(assume.Zero).IsTrue():
			return NaN
		}
	}
	return nil
}

func negInfinityPow(e Expr) Expr {
	if e.hdr().free {
		return nil
	}
	switch e {
	case Infinity, NegativeInfinity:
		return NaN
	}
	infPart := NewPow(Infinity, e)
	sPart := NewPow(NegativeOne, e)
	if infPart == Zero && sPart.Is(assume.Finite).IsTrue() {
		return Zero
	}
	if infPart == ComplexInfinity && sPart.Is(assume.Nonzero).IsTrue() {
		return ComplexInfinity
	}
	return NewMul(sPart, infPart)
}

func complexInfinityPow(e Expr) Expr {
	switch e {
	case ComplexInfinity:
		return NaN
	case Infinity:
		return ComplexInfinity
	case NegativeInfinity:
		return Zero
	}
	if en, ok := e.(*Number); ok {
		if en.Sign() > 0 {
			return ComplexInfinity
		}
		return Zero
	}
	return nil
}

// expPow applies the rules of the exponential function to E**e.
func expPow(e Expr) Expr {
	switch e {
	case ComplexInfinity:
		return NaN
	case Infinity:
		return Infinity
	case NegativeInfinity:
		return Zero
	}
	if f, ok := e.(*Func); ok && f.fn == FnLog {
		return f.args[0]
	}
	m, ok := e.(*Mul)
	if !ok {
		return nil
	}
	if hasFactor(m, Pi) && hasFactor(m, I) {
		c := withoutFactors(m, Pi, I)
		if NewMul(Two, c).Is(assume.Integer).IsTrue() {
			switch {
			case c.Is(assume.Even).IsTrue():
				return One
			case c.Is(assume.Odd).IsTrue():
				return NegativeOne
			}
			h := NewAdd(c, Half)
			switch {
			case h.Is(assume.Even).IsTrue():
				return Neg(I)
			case h.Is(assume.Odd).IsTrue():
				return I
			}
		} else if cn, ok := c.(*Number); ok {
			// restrict to (-pi, pi]
			_, r := floorDivmod(cn.val.Num(), new(big.Int).Lsh(cn.val.Denom(), 1))
			n := new(big.Rat).SetFrac(r, cn.Den())
			if n.Cmp(ratOne) > 0 {
				n.Sub(n, big.NewRat(2, 1))
			}
			if n.Cmp(&cn.val) != 0 {
				return NewPow(E, NewMul(NewBigRat(n), Pi, I))
			}
		}
	}
	// E**(c*log(x)) = x**c for real c
	c, terms := AsCoeffMul(e)
	coeffs := []Expr{c}
	var arg Expr
	for _, t := range MulArgs(terms) {
		if f, ok := t.(*Func); ok && f.fn == FnLog {
			if arg != nil {
				return nil
			}
			arg = f.args[0]
			continue
		}
		if t.hdr().free || !t.Is(assume.Real).IsTrue() {
			return nil
		}
		coeffs = append(coeffs, t)
	}
	if arg == nil {
		return nil
	}
	return NewPow(arg, NewMul(coeffs...))
}

// mulPow raises a product to a numeric power. Integer powers distribute;
// rational powers go through ExpandPowerBase without force.
func mulPow(m *Mul, e Expr) Expr {
	en, ok := e.(*Number)
	if !ok {
		return nil
	}
	if en.IsInt() {
		out := make([]Expr, len(m.args))
		for i, f := range m.args {
			out[i] = NewPow(f, e)
		}
		return NewMul(out...)
	}
	if en.val.Denom().Cmp(big.NewInt(2)) == 0 && len(m.args) == 2 && m.args[1] == I {
		// (2*a*I)**(p/2) = (sqrt(a)*(1 + sign(a)*I))**p for square a
		if c, ok := m.args[0].(*Number); ok {
			h := numAbs(numQuo(c, Two))
			rn, okn, _ := ntheory.IntegerNthRoot(h.Num(), 2)
			rd, okd, _ := ntheory.IntegerNthRoot(h.Den(), 2)
			if okn && okd {
				r := NewBigRat(new(big.Rat).SetFrac(rn, rd))
				p := NewBigInt(en.Num())
				s := NewInt(int64(c.Sign()))
				return NewMul(NewPow(r, p), NewPow(NewAdd(One, NewMul(s, I)), p))
			}
		}
	}
	raw := NewPowUnevaluated(m, e)
	if r := ExpandPowerBase(raw, false); r != raw {
		return r
	}
	return nil
}
