package expr

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
	"github.com/wildfunctions/symbolic_power/pkg/evalf"
	"github.com/wildfunctions/symbolic_power/pkg/logic"
	"github.com/wildfunctions/symbolic_power/pkg/ntheory"
)

func holds(e Expr, p assume.Property) bool { return e.Is(p).IsTrue() }
func fails(e Expr, p assume.Property) bool { return e.Is(p).IsFalse() }

func allHold(es []Expr, p assume.Property) bool {
	for _, e := range es {
		if !holds(e, p) {
			return false
		}
	}
	return true
}

// computeFacts derives the fact table of a freshly interned node from
// its structure, then refines symbol-free nodes numerically.
func computeFacts(n Expr) assume.Facts {
	var f assume.Facts
	switch x := n.(type) {
	case *Number:
		f = numberFacts(x)
	case *Constant:
		f = constantFacts(x)
	case *Symbol:
		return x.declared
	case *Add:
		f = addFacts(x)
	case *Mul:
		f = mulFacts(x)
	case *Pow:
		f = powFacts(x)
	case *Func:
		f = funcFacts(x)
	}
	d, err := assume.Deduce(f)
	if err != nil {
		logger().Warn("inconsistent structural facts",
			zap.String("expr", n.String()),
			zap.Stringer("facts", f),
			zap.Error(err))
		return assume.Facts{}
	}
	switch n.(type) {
	case *Number, *Constant:
		return d
	}
	if n.hdr().free {
		return d
	}
	return numericFacts(n, d)
}

func numberFacts(n *Number) assume.Facts {
	var f assume.Facts
	for _, p := range []assume.Property{assume.Finite, assume.ExtendedReal, assume.Real, assume.Rational, assume.Algebraic} {
		f[p] = logic.True
	}
	f[assume.Imaginary] = logic.False
	f[assume.Irrational] = logic.False
	f[assume.Transcendental] = logic.False
	f[assume.Infinite] = logic.False
	switch n.Sign() {
	case 0:
		f[assume.Zero] = logic.True
	case 1:
		f[assume.Positive] = logic.True
	default:
		f[assume.Negative] = logic.True
	}
	f[assume.Integer] = logic.FromBool(n.IsInt())
	if n.IsInt() {
		odd := n.val.Num().Bit(0) == 1
		f[assume.Odd] = logic.FromBool(odd)
		f[assume.Even] = logic.FromBool(!odd)
	}
	return f
}

func constantFacts(c *Constant) assume.Facts {
	var f assume.Facts
	switch c {
	case Infinity:
		f[assume.Infinite] = logic.True
		f[assume.ExtendedReal] = logic.True
		f[assume.ExtendedPositive] = logic.True
	case NegativeInfinity:
		f[assume.Infinite] = logic.True
		f[assume.ExtendedReal] = logic.True
		f[assume.ExtendedNegative] = logic.True
	case ComplexInfinity:
		f[assume.Infinite] = logic.True
		f[assume.ExtendedReal] = logic.False
	case I:
		f[assume.Imaginary] = logic.True
		f[assume.Finite] = logic.True
		f[assume.Algebraic] = logic.True
	case Pi, E:
		f[assume.Positive] = logic.True
		f[assume.Irrational] = logic.True
		f[assume.Transcendental] = logic.True
	}
	return f
}

// sumParts splits terms into real and imaginary ones. ok is false when
// some term is neither.
func sumParts(terms []Expr) (reals, imags []Expr, ok bool) {
	for _, t := range terms {
		switch {
		case holds(t, assume.Real):
			reals = append(reals, t)
		case holds(t, assume.Imaginary):
			imags = append(imags, NewMul(NegativeOne, I, t))
		default:
			return nil, nil, false
		}
	}
	return reals, imags, true
}

func addFacts(a *Add) assume.Facts {
	var f assume.Facts
	terms := a.args

	infinite, finite := 0, 0
	for _, t := range terms {
		switch {
		case holds(t, assume.Finite):
			finite++
		case holds(t, assume.Infinite):
			infinite++
		}
	}
	switch {
	case finite == len(terms):
		f[assume.Finite] = logic.True
	case infinite == 1 && finite == len(terms)-1:
		f[assume.Infinite] = logic.True
	}

	nonReal := 0
	for _, t := range terms {
		if !holds(t, assume.ExtendedReal) {
			if fails(t, assume.ExtendedReal) && holds(t, assume.Finite) {
				nonReal++
				continue
			}
			nonReal = -1
			break
		}
	}
	switch {
	case nonReal == 0:
		f[assume.ExtendedReal] = logic.True
	case nonReal == 1 && f[assume.Finite].IsTrue():
		f[assume.ExtendedReal] = logic.False
	}

	if reals, imags, ok := sumParts(terms); ok && len(reals) > 0 && len(imags) > 0 {
		r, m := NewAdd(reals...), NewAdd(imags...)
		switch {
		case holds(r, assume.Zero) && fails(m, assume.Zero):
			f[assume.Imaginary] = logic.True
		case fails(r, assume.Zero):
			f[assume.Imaginary] = logic.False
			f[assume.Zero] = logic.False
		}
		if fails(m, assume.Zero) {
			f[assume.ExtendedReal] = logic.False
			f[assume.Zero] = logic.False
		}
	}

	signFacts(&f, terms)

	switch {
	case allHold(terms, assume.Integer):
		f[assume.Integer] = logic.True
		odd, known := 0, true
		for _, t := range terms {
			switch {
			case holds(t, assume.Odd):
				odd++
			case !holds(t, assume.Even):
				known = false
			}
		}
		if known {
			f[assume.Odd] = logic.FromBool(odd%2 == 1)
		}
	case allHold(terms, assume.Rational):
		f[assume.Rational] = logic.True
	}
	if oneOff(terms, assume.Irrational, assume.Rational) {
		f[assume.Irrational] = logic.True
	}
	if allHold(terms, assume.Algebraic) {
		f[assume.Algebraic] = logic.True
	}
	if oneOff(terms, assume.Transcendental, assume.Algebraic) {
		f[assume.Transcendental] = logic.True
	}
	return f
}

// oneOff reports whether exactly one term has odd and all others have
// rest.
func oneOff(terms []Expr, odd, rest assume.Property) bool {
	n := 0
	for _, t := range terms {
		switch {
		case holds(t, rest):
		case holds(t, odd):
			n++
		default:
			return false
		}
	}
	return n == 1
}

// signFacts applies the sign rules of a sum: nonnegative terms with a
// positive one give a positive sum, and symmetrically.
func signFacts(f *assume.Facts, terms []Expr) {
	pos, nonneg, neg, nonpos := 0, 0, 0, 0
	for _, t := range terms {
		if holds(t, assume.ExtendedPositive) {
			pos++
		}
		if holds(t, assume.ExtendedReal) && fails(t, assume.ExtendedNegative) {
			nonneg++
		}
		if holds(t, assume.ExtendedNegative) {
			neg++
		}
		if holds(t, assume.ExtendedReal) && fails(t, assume.ExtendedPositive) {
			nonpos++
		}
	}
	n := len(terms)
	switch {
	case nonneg == n && pos > 0:
		f[assume.ExtendedPositive] = logic.True
	case nonneg == n:
		f[assume.ExtendedNegative] = logic.False
	case nonpos == n && neg > 0:
		f[assume.ExtendedNegative] = logic.True
	case nonpos == n:
		f[assume.ExtendedPositive] = logic.False
	}
}

func mulFacts(m *Mul) assume.Facts {
	var f assume.Facts
	fs := m.args

	allFinite := allHold(fs, assume.Finite)
	allNonzero := true
	for _, x := range fs {
		if !fails(x, assume.Zero) {
			allNonzero = false
		}
	}
	if allFinite {
		f[assume.Finite] = logic.True
		for _, x := range fs {
			if holds(x, assume.Zero) {
				f[assume.Zero] = logic.True
			}
		}
		if allNonzero {
			f[assume.Zero] = logic.False
		}
	}
	inf := 0
	for _, x := range fs {
		if holds(x, assume.Infinite) {
			inf++
		}
	}
	if inf > 0 && allNonzero {
		f[assume.Infinite] = logic.True
	}

	// real and imaginary factors
	nReal, nImag, nComplex := 0, 0, 0
	for _, x := range fs {
		switch {
		case holds(x, assume.Real):
			nReal++
		case holds(x, assume.Imaginary):
			nImag++
		case fails(x, assume.ExtendedReal) && holds(x, assume.Finite) && fails(x, assume.Imaginary):
			nComplex++
		}
	}
	if nReal+nImag+nComplex == len(fs) {
		switch {
		case nComplex == 0 && nImag%2 == 0:
			f[assume.Real] = logic.True
		case nComplex == 0 && allNonzero:
			f[assume.Imaginary] = logic.True
		case nComplex == 1 && allNonzero:
			f[assume.ExtendedReal] = logic.False
			f[assume.Imaginary] = logic.False
		}
	} else if allHold(fs, assume.ExtendedReal) && (allFinite || allNonzero) {
		f[assume.ExtendedReal] = logic.True
	}

	// sign parity
	neg, known := 0, true
	for _, x := range fs {
		switch {
		case holds(x, assume.ExtendedPositive):
		case holds(x, assume.ExtendedNegative):
			neg++
		default:
			known = false
		}
	}
	if known {
		if neg%2 == 0 {
			f[assume.ExtendedPositive] = logic.True
		} else {
			f[assume.ExtendedNegative] = logic.True
		}
	} else if allFinite {
		neg, known = 0, true
		for _, x := range fs {
			switch {
			case holds(x, assume.Nonnegative):
			case holds(x, assume.Nonpositive):
				neg++
			default:
				known = false
			}
		}
		if known {
			if neg%2 == 0 {
				f[assume.Nonnegative] = logic.True
			} else {
				f[assume.Nonpositive] = logic.True
			}
		}
	}

	switch {
	case allHold(fs, assume.Integer):
		f[assume.Integer] = logic.True
		even, odd := false, true
		for _, x := range fs {
			if holds(x, assume.Even) {
				even = true
			}
			if !holds(x, assume.Odd) {
				odd = false
			}
		}
		switch {
		case even:
			f[assume.Even] = logic.True
		case odd:
			f[assume.Odd] = logic.True
		}
	case allHold(fs, assume.Rational):
		f[assume.Rational] = logic.True
	}
	if allNonzero && oneOff(fs, assume.Irrational, assume.Rational) {
		f[assume.Irrational] = logic.True
	}
	if allHold(fs, assume.Algebraic) {
		f[assume.Algebraic] = logic.True
	}
	if allNonzero && oneOff(fs, assume.Transcendental, assume.Algebraic) {
		f[assume.Transcendental] = logic.True
	}
	if allHold(fs, assume.Polar) {
		f[assume.Polar] = logic.True
	}
	return f
}

func powFacts(p *Pow) assume.Facts {
	var f assume.Facts
	b, e := p.args[0], p.args[1]
	f[assume.Zero] = powZero(b, e)
	f[assume.Finite] = powFinite(b, e)
	if holds(b, assume.Zero) && holds(e, assume.Negative) {
		f[assume.Infinite] = logic.True
	}
	f[assume.Integer] = powInteger(b, e)
	if holds(b, assume.Integer) && holds(e, assume.Integer) {
		switch {
		case holds(e, assume.Positive):
			f[assume.Even] = b.Is(assume.Even)
			f[assume.Odd] = b.Is(assume.Odd)
		case holds(e, assume.Nonnegative) && holds(b, assume.Odd), b == NegativeOne:
			f[assume.Odd] = logic.True
		}
	}
	f[assume.ExtendedReal] = powExtendedReal(b, e)
	f[assume.Imaginary] = powImaginary(b, e)
	if powPositive(b, e) {
		f[assume.ExtendedPositive] = logic.True
	}
	if v := powNegative(b, e); v.Known() {
		f[assume.ExtendedNegative] = v
	}
	f[assume.Polar] = b.Is(assume.Polar)
	f[assume.Rational] = powRational(b, e)
	f[assume.Algebraic] = powAlgebraic(b, e)
	if f[assume.Algebraic].IsFalse() && f[assume.Finite].IsTrue() {
		f[assume.Transcendental] = logic.True
	}
	return f
}

func powZero(b, e Expr) logic.Tri {
	switch {
	case holds(b, assume.Zero):
		if holds(e, assume.ExtendedPositive) {
			return logic.True
		}
		if holds(e, assume.ExtendedReal) && fails(e, assume.ExtendedPositive) {
			return logic.False
		}
	case b == I:
		return logic.False
	case fails(b, assume.Zero):
		switch {
		case holds(b, assume.Finite) && holds(e, assume.Finite):
			return logic.False
		case holds(e, assume.Negative):
			return b.Is(assume.Infinite)
		case holds(e, assume.Nonnegative):
			return logic.False
		case holds(e, assume.Infinite) && holds(e, assume.ExtendedReal):
			d := Sub(One, Abs(b))
			switch {
			case holds(d, assume.ExtendedPositive):
				return e.Is(assume.ExtendedPositive)
			case holds(d, assume.ExtendedNegative):
				return e.Is(assume.ExtendedNegative)
			}
		}
	case holds(b, assume.Finite) && holds(e, assume.Negative):
		return logic.False
	}
	return logic.Unknown
}

func powFinite(b, e Expr) logic.Tri {
	if holds(e, assume.Negative) {
		if holds(b, assume.Zero) {
			return logic.False
		}
		if holds(b, assume.Infinite) || holds(b, assume.Nonzero) {
			return logic.True
		}
	}
	if holds(b, assume.Finite) && holds(e, assume.Finite) {
		if holds(e, assume.Nonnegative) || fails(b, assume.Zero) {
			return logic.True
		}
	}
	return logic.Unknown
}

func notPlusMinusOne(b Expr) bool {
	return fails(Sub(b, One), assume.Zero) && fails(NewAdd(b, One), assume.Zero)
}

func powInteger(b, e Expr) logic.Tri {
	if holds(b, assume.Rational) && fails(b, assume.Integer) && holds(e, assume.Rational) && holds(e, assume.Positive) {
		return logic.False
	}
	if holds(b, assume.Integer) && holds(e, assume.Integer) {
		if b == NegativeOne || holds(e, assume.Nonnegative) {
			return logic.True
		}
	}
	if holds(b, assume.Integer) && holds(e, assume.Negative) && (holds(e, assume.Finite) || holds(e, assume.Integer)) {
		if notPlusMinusOne(b) {
			return logic.False
		}
	}
	if bn, ok := b.(*Number); ok {
		if en, ok := e.(*Number); ok && !en.IsInt() {
			_, integer := numberPowFacts(bn, en)
			return integer
		}
	}
	if holds(e, assume.Negative) {
		if holds(b, assume.Positive) && holds(Sub(b, One), assume.Positive) {
			return logic.False
		}
		if holds(b, assume.Negative) && holds(NewAdd(b, One), assume.Negative) {
			return logic.False
		}
	}
	return logic.Unknown
}

func powExtendedReal(b, e Expr) logic.Tri {
	if b == E {
		switch {
		case holds(e, assume.ExtendedReal):
			return logic.True
		case holds(e, assume.Imaginary):
			return NewMul(Two, I, e, NewPow(Pi, NegativeOne)).Is(assume.Even)
		}
	}
	realB := b.Is(assume.ExtendedReal)
	if !realB.Known() {
		if bp, ok := b.(*Pow); ok && bp.args[0] == E && holds(bp.args[1], assume.Imaginary) && holds(e, assume.Imaginary) {
			return logic.True
		}
		return logic.Unknown
	}
	realE := e.Is(assume.ExtendedReal)
	if !realE.Known() {
		return logic.Unknown
	}
	if realB.IsTrue() && realE.IsTrue() {
		switch {
		case holds(b, assume.ExtendedPositive):
			return logic.True
		case fails(b, assume.ExtendedNegative) && fails(e, assume.ExtendedNegative):
			return logic.True
		case holds(e, assume.Integer) && holds(b, assume.Nonzero):
			return logic.True
		case holds(e, assume.Integer) && holds(e, assume.Nonnegative):
			return logic.True
		case holds(b, assume.ExtendedNegative):
			if en, ok := e.(*Number); ok && !en.IsInt() {
				return logic.False
			}
		}
	}
	if realE.IsTrue() && holds(e, assume.ExtendedNegative) && fails(b, assume.Zero) && holds(b, assume.Finite) {
		return NewPow(b, Neg(e)).Is(assume.ExtendedReal)
	}
	imE := holds(e, assume.Imaginary)
	if holds(b, assume.Imaginary) {
		switch {
		case holds(e, assume.Integer):
			if holds(e, assume.Even) {
				return logic.True
			}
			if holds(e, assume.Odd) {
				return logic.False
			}
		case imE && holds(Log(b), assume.Imaginary):
			return logic.True
		case (b == I || b == Neg(I)) && holds(e, assume.ExtendedReal):
			if fails(NewMul(Half, e), assume.Integer) {
				return logic.False
			}
		}
	}
	if realB.IsTrue() && imE {
		if b == NegativeOne {
			return logic.True
		}
		c := NewMul(NegativeOne, I, e)
		if holds(b, assume.Rational) && holds(c, assume.Rational) &&
			holds(b, assume.Nonzero) && fails(Sub(b, One), assume.Zero) && holds(c, assume.Nonzero) {
			return logic.False
		}
		if holds(b, assume.Positive) {
			if v := NewMul(c, Log(b), NewPow(Pi, NegativeOne)).Is(assume.Integer); v.Known() {
				return v
			}
		}
	}
	if realB.IsFalse() && realE.IsTrue() && holds(b, assume.Finite) {
		if en, ok := e.(*Number); ok && en.val.Num().IsInt64() && en.val.Num().Int64() == 1 {
			return logic.False
		}
		i := NewMul(Arg(b), e, NewPow(Pi, NegativeOne))
		if holds(i, assume.Finite) {
			return i.Is(assume.Integer)
		}
	}
	return logic.Unknown
}

func powImaginary(b, e Expr) logic.Tri {
	if holds(b, assume.Imaginary) && holds(e, assume.Integer) {
		return e.Is(assume.Odd)
	}
	if b == E {
		f := NewMul(Two, e, NewPow(NewMul(Pi, I), NegativeOne))
		switch {
		case holds(f, assume.Even):
			return logic.False
		case holds(f, assume.Odd):
			return logic.True
		}
		return logic.Unknown
	}
	if holds(e, assume.Imaginary) && holds(Log(b), assume.Imaginary) {
		return logic.False
	}
	if holds(b, assume.ExtendedReal) && holds(e, assume.ExtendedReal) {
		if holds(b, assume.Positive) {
			return logic.False
		}
		rat := e.Is(assume.Rational)
		if !rat.IsTrue() {
			if rat.IsFalse() {
				return logic.False
			}
			return logic.Unknown
		}
		if holds(e, assume.Integer) {
			return logic.False
		}
		half := NewMul(Two, e).Is(assume.Integer)
		if half.IsTrue() {
			return b.Is(assume.Negative)
		}
		return half
	}
	if fails(b, assume.ExtendedReal) && holds(b, assume.Finite) && holds(e, assume.ExtendedReal) {
		i := NewMul(Two, Arg(b), e, NewPow(Pi, NegativeOne))
		return i.Is(assume.Odd)
	}
	return logic.Unknown
}

// numberPowFacts decides rationality and integrality of b**e for a
// non-integer rational exponent e = p/q. Canonicalization leaves such powers
// raw both when the root is inexact and when the exact result would be too
// large to build, so the root is taken here without expanding the power.
func numberPowFacts(b, e *Number) (rational, integer logic.Tri) {
	if b.Sign() <= 0 {
		// negative bases have a non-real principal root; zero never stays raw
		return logic.False, logic.False
	}
	q := e.val.Denom()
	if !q.IsInt64() || q.Int64() > maxRootExp {
		return logic.Unknown, logic.Unknown
	}
	num, okn, err := ntheory.IntegerNthRoot(b.val.Num(), int(q.Int64()))
	if err != nil {
		return logic.Unknown, logic.Unknown
	}
	den, okd, err := ntheory.IntegerNthRoot(b.val.Denom(), int(q.Int64()))
	if err != nil {
		return logic.Unknown, logic.Unknown
	}
	if !okn || !okd {
		return logic.False, logic.False
	}
	one := big.NewInt(1)
	if e.Sign() > 0 {
		return logic.True, logic.FromBool(den.Cmp(one) == 0)
	}
	return logic.True, logic.FromBool(num.Cmp(one) == 0)
}

// imagIntPower reports whether the integer exponent e is 0 or 2 modulo 4
// when b is imaginary. Symbolic exponents are decided through the
// integrality of e/4 and (e-2)/4.
func imagIntPower(b, e Expr) (zero, two logic.Tri, ok bool) {
	if !holds(b, assume.Imaginary) || !holds(e, assume.Integer) {
		return logic.Unknown, logic.Unknown, false
	}
	if en, isNum := e.(*Number); isNum {
		m := new(big.Int).Mod(en.val.Num(), big.NewInt(4)).Int64()
		return logic.FromBool(m == 0), logic.FromBool(m == 2), true
	}
	if holds(e, assume.Odd) {
		return logic.False, logic.False, true
	}
	quarter := NewRat(1, 4)
	zero = NewMul(quarter, e).Is(assume.Integer)
	two = NewMul(quarter, Sub(e, Two)).Is(assume.Integer)
	if holds(e, assume.Even) {
		// an even e is exactly one of the two
		switch {
		case zero.Known():
			two = zero.Not()
		case two.Known():
			zero = two.Not()
		}
	}
	return zero, two, true
}

func powPositive(b, e Expr) bool {
	switch {
	case b == e:
		return holds(b, assume.ExtendedReal) && fails(b, assume.ExtendedNegative)
	case holds(b, assume.Positive):
		return holds(e, assume.Real)
	case holds(b, assume.ExtendedNegative):
		return holds(e, assume.Even)
	case holds(b, assume.Zero):
		return holds(e, assume.ExtendedReal) && holds(e, assume.Zero)
	}
	if zero, _, ok := imagIntPower(b, e); ok {
		return zero.IsTrue()
	}
	return holds(e, assume.Imaginary) && holds(Log(b), assume.Imaginary)
}

func powNegative(b, e Expr) logic.Tri {
	if e == Half && (holds(b, assume.Finite) || holds(b, assume.ExtendedReal)) {
		return logic.False
	}
	switch {
	case holds(b, assume.ExtendedNegative):
		if holds(e, assume.Odd) && holds(b, assume.Finite) {
			return logic.True
		}
		if holds(e, assume.Even) {
			return logic.False
		}
	case holds(b, assume.ExtendedPositive), holds(b, assume.Zero):
		if holds(e, assume.ExtendedReal) {
			return logic.False
		}
	case holds(b, assume.ExtendedReal) && fails(b, assume.ExtendedNegative):
		if holds(e, assume.ExtendedReal) && fails(e, assume.ExtendedNegative) {
			return logic.False
		}
	case holds(b, assume.ExtendedReal):
		if holds(e, assume.Even) {
			return logic.False
		}
	}
	if zero, two, ok := imagIntPower(b, e); ok {
		if two.Known() {
			return two
		}
		if zero.IsTrue() {
			return logic.False
		}
	}
	return logic.Unknown
}

func powRational(b, e Expr) logic.Tri {
	if holds(e, assume.Integer) && holds(b, assume.Rational) && !(holds(e, assume.Negative) && holds(b, assume.Zero)) &&
		(fails(b, assume.Zero) || holds(e, assume.Nonnegative)) {
		return logic.True
	}
	if bn, ok := b.(*Number); ok {
		if en, ok := e.(*Number); ok && !en.IsInt() {
			rational, _ := numberPowFacts(bn, en)
			return rational
		}
	}
	if b == e && holds(b, assume.Integer) {
		return logic.True
	}
	if b == E && holds(e, assume.Rational) && holds(e, assume.Nonzero) {
		return logic.False
	}
	return logic.Unknown
}

func powAlgebraic(b, e Expr) logic.Tri {
	switch {
	case holds(b, assume.Zero) && holds(e, assume.ExtendedPositive):
		return logic.True
	case holds(Sub(b, One), assume.Zero):
		return logic.True
	case b == E:
		if !holds(e, assume.Nonzero) {
			return logic.Unknown
		}
		switch {
		case holds(e, assume.Algebraic):
			return logic.False
		case holds(NewMul(e, NewPow(Pi, NegativeOne)), assume.Rational):
			return logic.False
		case holds(NewMul(e, NewPow(NewMul(I, Pi), NegativeOne)), assume.Rational):
			return logic.True
		}
		return logic.Unknown
	case holds(e, assume.Rational):
		if fails(b, assume.Algebraic) && holds(b, assume.Finite) {
			if holds(e, assume.Zero) {
				return logic.True
			}
			if fails(e, assume.Zero) {
				return logic.False
			}
			return logic.Unknown
		}
		if fails(b, assume.Zero) && holds(b, assume.Finite) {
			if holds(e, assume.Nonzero) {
				return b.Is(assume.Algebraic)
			}
			if holds(b, assume.Algebraic) {
				return logic.True
			}
		}
		if holds(e, assume.Positive) {
			return b.Is(assume.Algebraic)
		}
	case holds(b, assume.Algebraic) && holds(e, assume.Algebraic):
		// Gelfond-Schneider
		if fails(b, assume.Zero) && fails(Sub(b, One), assume.Zero) {
			return e.Is(assume.Rational)
		}
	}
	return logic.Unknown
}

func funcFacts(fn *Func) assume.Facts {
	var f assume.Facts
	x := fn.args[0]
	switch fn.fn {
	case FnLog:
		switch {
		case holds(x, assume.Positive):
			f[assume.Real] = logic.True
			d := Sub(x, One)
			switch {
			case holds(d, assume.Positive):
				f[assume.Positive] = logic.True
			case holds(d, assume.Negative):
				f[assume.Negative] = logic.True
			case fails(d, assume.Zero):
				f[assume.Zero] = logic.False
			}
		case holds(x, assume.Negative):
			f[assume.ExtendedReal] = logic.False
		case fails(x, assume.ExtendedReal) && holds(x, assume.Finite) && fails(x, assume.Imaginary):
			f[assume.ExtendedReal] = logic.False
		}
		if holds(x, assume.Finite) && fails(x, assume.Zero) {
			f[assume.Finite] = logic.True
		}
		if holds(x, assume.Algebraic) && fails(Sub(x, One), assume.Zero) && fails(x, assume.Zero) {
			f[assume.Transcendental] = logic.True
		}
	case FnAbs:
		f[assume.ExtendedReal] = logic.True
		f[assume.ExtendedNegative] = logic.False
		copyFacts(&f, x, assume.Finite, assume.Zero)
		if holds(x, assume.ExtendedReal) {
			copyFacts(&f, x, assume.Integer, assume.Rational, assume.Algebraic, assume.Even, assume.Odd)
		} else if holds(x, assume.Algebraic) {
			// |x| of a non-real algebraic is algebraic but may be irrational
			f[assume.Algebraic] = logic.True
		}
	case FnRe, FnIm:
		if holds(x, assume.Finite) {
			f[assume.Real] = logic.True
			copyFacts(&f, x, assume.Algebraic)
			if fn.fn == FnIm && fails(x, assume.ExtendedReal) {
				f[assume.Zero] = logic.False
			}
		}
	case FnArg:
		if holds(x, assume.Finite) && fails(x, assume.Zero) {
			f[assume.Real] = logic.True
			if fails(x, assume.ExtendedReal) {
				f[assume.Zero] = logic.False
			}
		}
	case FnSign:
		f[assume.Finite] = logic.True
		switch {
		case holds(x, assume.ExtendedReal):
			f[assume.Integer] = logic.True
			if fails(x, assume.Zero) {
				f[assume.Odd] = logic.True
			}
		case holds(x, assume.Imaginary):
			f[assume.Imaginary] = logic.True
		}
		if fails(x, assume.Zero) {
			f[assume.Zero] = logic.False
		}
	case FnFloor:
		if holds(x, assume.Real) {
			f[assume.Integer] = logic.True
			switch {
			case holds(x, assume.Nonnegative):
				f[assume.Nonnegative] = logic.True
			case holds(x, assume.Negative):
				f[assume.Negative] = logic.True
			}
		}
	case FnConjugate:
		for p := assume.Property(0); p < assume.NumProperties; p++ {
			if p != assume.Polar {
				f[p] = x.Is(p)
			}
		}
	case FnSin, FnCos:
		if holds(x, assume.Finite) {
			f[assume.Finite] = logic.True
		}
		if holds(x, assume.Real) {
			f[assume.Real] = logic.True
		}
		if holds(x, assume.Algebraic) && fails(x, assume.Zero) {
			f[assume.Transcendental] = logic.True
		}
	case FnAtan2:
		if holds(x, assume.Real) && holds(fn.args[1], assume.Real) {
			f[assume.Real] = logic.True
		}
	}
	return f
}

func copyFacts(f *assume.Facts, x Expr, ps ...assume.Property) {
	for _, p := range ps {
		f[p] = x.Is(p)
	}
}

// numericFacts refines the facts of a symbol-free node by evaluating it.
// A fact is added only when every working precision certifies it.
func numericFacts(n Expr, structural assume.Facts) assume.Facts {
	var vals []evalf.Num
	for _, prec := range floorPrecs {
		v, err := Evalf(n, prec, nil)
		if err != nil {
			return structural
		}
		vals = append(vals, v)
	}
	sign := func(pick func(evalf.Num) *big.Float) (int, bool) {
		s := 0
		for i, v := range vals {
			got, err := evalf.Sign(pick(v), floorPrecs[i])
			if err != nil || (i > 0 && got != s) {
				return 0, false
			}
			s = got
		}
		return s, true
	}
	f := structural
	f[assume.Finite] = logic.True
	if _, ok := sign(func(v evalf.Num) *big.Float { return v.Im }); ok {
		f[assume.ExtendedReal] = logic.False
		f[assume.Zero] = logic.False
	}
	if s, ok := sign(func(v evalf.Num) *big.Float { return v.Re }); ok {
		f[assume.Zero] = logic.False
		f[assume.Imaginary] = logic.False
		if structural[assume.ExtendedReal].IsTrue() {
			if s > 0 {
				f[assume.Positive] = logic.True
			} else {
				f[assume.Negative] = logic.True
			}
		}
	}
	d, err := assume.Deduce(f)
	if err != nil {
		logger().Warn("numeric facts contradict structure",
			zap.String("expr", n.String()),
			zap.Stringer("facts", f),
			zap.Error(err))
		return structural
	}
	return d
}
