package expr

import (
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
	"github.com/wildfunctions/symbolic_power/pkg/evalf"
)

// recombine rewrites (b**e)**other as s * b**(e*other), where s corrects
// for the branch cut of the principal logarithm. It returns nil when the
// correction cannot be proven, leaving the nested power alone.
func recombine(p *Pow, other Expr) Expr {
	b, e := AsBaseExp(p)
	var s Expr
	switch {
	case other.Is(assume.Integer).IsTrue(), b.Is(assume.Polar).IsTrue():
		s = One
	case e.Is(assume.ExtendedReal).IsTrue():
		if e == NegativeOne && isHalfDenom(other) {
			switch {
			case b.Is(assume.Negative).IsTrue():
				return NewMul(NewPow(NegativeOne, other), NewPow(Neg(b), NewMul(e, other)))
			case b.Is(assume.ExtendedReal).IsFalse():
				return NewPow(NewMul(Conjugate(b), NewPow(Abs(b), NewInt(-2))), other)
			}
		} else if e.Is(assume.Even).IsTrue() {
			if b.Is(assume.ExtendedReal).IsTrue() {
				b = Abs(b)
			}
			if b.Is(assume.Imaginary).IsTrue() {
				b = NewMul(Abs(Im(b)), I)
			}
		}
		s = realBranchFactor(b, e, other)
	case e.Is(assume.ExtendedReal).IsFalse():
		s = windingFactor(b, e, other)
	}
	if s == nil {
		return nil
	}
	return NewMul(s, NewPow(b, NewMul(e, other)))
}

// realBranchFactor handles a real inner exponent. The tests pick out the
// cases where e*arg(b) stays inside (-pi, pi].
func realBranchFactor(b, e, other Expr) Expr {
	absE, known := absCompare(e, 1)
	switch {
	case known && absE < 0, e == One:
		return One
	case b.Is(assume.ExtendedReal).IsTrue() && b.Is(assume.ExtendedNegative).IsFalse():
		return One
	}
	re := Re(b)
	if re.Is(assume.Nonnegative).IsTrue() {
		if c, ok := absCompare(e, 2); ok && c < 0 {
			return One
		}
	}
	if re.Is(assume.Positive).IsTrue() {
		if c, ok := absCompare(e, 2); ok && c == 0 {
			return One
		}
	}
	if b.Is(assume.Imaginary).IsTrue() && e == Two {
		return One
	}
	if isHalfDenom(other) {
		return windingFactor(b, e, other)
	}
	return nil
}

// windingFactor computes exp(2*pi*I*other*k) with
// k = floor(1/2 - im(e*log(b))/(2*pi)), accepting it only when it is
// exactly 1 or -1.
func windingFactor(b, e, other Expr) Expr {
	x := NewAdd(Half, Neg(NewMul(Im(NewMul(e, Log(b))), NewPow(NewMul(Two, Pi), NegativeOne))))
	k, err := certifiedFloor(x)
	if err != nil {
		logger().Debug("nested power left unevaluated",
			zap.String("base", b.String()),
			zap.String("exp", e.String()),
			zap.String("other", other.String()),
			zap.Error(err))
		return nil
	}
	s := NewPow(E, NewMul(Two, I, Pi, other, NewBigInt(k)))
	if s == One || s == NegativeOne {
		return s
	}
	return nil
}

// floorPrecs are the working precisions a numeric floor must agree at.
var floorPrecs = []uint{96, 192}

// certifiedFloor returns floor(x) for a real constant expression. Numeric
// values are accepted only when every working precision certifies the
// same integer.
func certifiedFloor(x Expr) (*big.Int, error) {
	if n, ok := x.(*Number); ok {
		q, _ := floorDivmod(n.val.Num(), n.val.Denom())
		return q, nil
	}
	if x.hdr().free {
		return nil, errors.Wrapf(evalf.ErrNotNumeric, "floor of %s", x)
	}
	var got *big.Int
	for _, prec := range floorPrecs {
		v, err := Evalf(x, prec, nil)
		if err != nil {
			return nil, err
		}
		if evalf.Certified(v.Im, prec) {
			return nil, errors.Errorf("floor of non-real %s", x)
		}
		fl, err := evalf.Floor(v.Re, prec)
		if err != nil {
			return nil, err
		}
		if got != nil && got.Cmp(fl) != 0 {
			return nil, errors.Wrapf(evalf.ErrPrecisionExhausted, "floor of %s disagrees across precisions", x)
		}
		got = fl
	}
	return got, nil
}

// absCompare compares |e| with bound for a real e. The second result is
// false when the comparison cannot be certified.
func absCompare(e Expr, bound int64) (int, bool) {
	if n, ok := e.(*Number); ok {
		return new(big.Rat).Abs(&n.val).Cmp(big.NewRat(bound, 1)), true
	}
	if e.hdr().free || !e.Is(assume.Real).IsTrue() {
		return 0, false
	}
	sign := 0
	for _, prec := range floorPrecs {
		v, err := Evalf(e, prec, nil)
		if err != nil {
			return 0, false
		}
		d := new(big.Float).SetPrec(prec).Abs(v.Re)
		d.Sub(d, new(big.Float).SetPrec(prec).SetInt64(bound))
		s, err := evalf.Sign(d, prec)
		if err != nil || (sign != 0 && s != sign) {
			return 0, false
		}
		sign = s
	}
	return sign, true
}

// isHalfDenom reports whether e is n/2 for an integer n.
func isHalfDenom(e Expr) bool {
	if n, ok := e.(*Number); ok {
		return n.val.Denom().Cmp(big.NewInt(2)) == 0
	}
	n, d := AsNumerDenom(e)
	return d == Two && n.Is(assume.Integer).IsTrue()
}

// combinable reports whether (b**e1)**(e2/e1) may be rewritten as b**e2,
// i.e. whether the nested power of old collapses without a branch
// correction.
func combinable(p *Pow, ratio Expr) bool {
	if ratio.Is(assume.Integer).IsTrue() {
		return true
	}
	switch recombine(p, ratio).(type) {
	case *Pow, *Symbol:
		return true
	}
	return false
}
