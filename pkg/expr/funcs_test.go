package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCanonical(t *testing.T) {
	eq(t, Zero, Log(One))
	eq(t, One, Log(E))
	eq(t, ComplexInfinity, Log(Zero))
	eq(t, Infinity, Log(NegativeInfinity))
	eq(t, NewMul(I, Pi), Log(NegativeOne))
	eq(t, NewMul(Half, I, Pi), Log(I))
	eq(t, Neg(Log(three)), Log(NewRat(1, 3)))
	eq(t, NewAdd(Log(Two), NewMul(I, Pi)), Log(NewInt(-2)))
	eq(t, r, Log(Exp(r)))

	// log(exp(x)) is only x for real x
	require.IsType(t, &Func{}, Log(Exp(x)))
}

func TestAbsCanonical(t *testing.T) {
	eq(t, three, Abs(NewInt(-3)))
	eq(t, One, Abs(I))
	eq(t, Infinity, Abs(ComplexInfinity))
	eq(t, p, Abs(p))
	eq(t, Neg(q), Abs(q))
	eq(t, NewMul(three, p), Abs(NewMul(NewInt(-3), p)))
	eq(t, Abs(x), Abs(NewMul(x, I)))
	eq(t, NewMul(Two, Abs(x)), Abs(NewMul(NewInt(-2), x)))
	eq(t, Abs(x), Abs(Abs(x)))
	eq(t, Abs(x), Abs(Conjugate(x)))
	eq(t, NewPow(r, Two), Abs(NewPow(r, Two)))
	eq(t, NewPow(Abs(r), three), Abs(NewPow(r, three)))
}

func TestReImCanonical(t *testing.T) {
	w := NewAdd(r, NewMul(Two, I))
	eq(t, r, Re(w))
	eq(t, Two, Im(w))
	eq(t, Zero, Re(k))
	eq(t, NewMul(NegativeOne, I, k), Im(k))
	eq(t, NaN, Re(ComplexInfinity))
	eq(t, Neg(Im(x)), Re(NewMul(I, x)))
	eq(t, Re(x), Im(NewMul(I, x)))
	eq(t, NewMul(r, Re(x)), Re(NewMul(r, x)))
	eq(t, Re(x), Re(Conjugate(x)))
	eq(t, Neg(Im(x)), Im(Conjugate(x)))
	eq(t, Log(Abs(x)), Re(Log(x)))
	eq(t, Arg(x), Im(Log(x)))
}

func TestArgSignCanonical(t *testing.T) {
	eq(t, Zero, Arg(p))
	eq(t, Pi, Arg(q))
	eq(t, NaN, Arg(Zero))
	eq(t, NewMul(Half, Pi), Arg(I))
	eq(t, NewMul(NewRat(-1, 2), Pi), Arg(Neg(I)))
	eq(t, Arg(x), Arg(NewMul(p, x)))

	eq(t, NegativeOne, Sign(NewInt(-5)))
	eq(t, Zero, Sign(Zero))
	eq(t, One, Sign(p))
	eq(t, I, Sign(NewMul(three, I)))
	eq(t, NewMul(NegativeOne, Sign(x)), Sign(NewMul(q, x)))
}

func TestFloorCanonical(t *testing.T) {
	eq(t, three, Floor(NewRat(7, 2)))
	eq(t, NewInt(-4), Floor(NewRat(-7, 2)))
	eq(t, n, Floor(n))
	eq(t, n, Floor(NewAdd(n, Half)))
	eq(t, NewAdd(n, Floor(x)), Floor(NewAdd(n, x)))
	eq(t, three, Floor(Pi))
	eq(t, NewInt(-4), Floor(Neg(Pi)))
	eq(t, One, Floor(Sqrt(Two)))
	eq(t, NaN, Floor(ComplexInfinity))
}

func TestConjugateCanonical(t *testing.T) {
	eq(t, r, Conjugate(r))
	eq(t, Neg(k), Conjugate(k))
	eq(t, NewAdd(r, Neg(I)), Conjugate(NewAdd(r, I)))
	eq(t, x, Conjugate(Conjugate(x)))
	eq(t, NewPow(Conjugate(x), three), Conjugate(NewPow(x, three)))
	eq(t, NewPow(p, Conjugate(x)), Conjugate(NewPow(p, x)))
	eq(t, Sin(Conjugate(x)), Conjugate(Sin(x)))
}

func TestTrigCanonical(t *testing.T) {
	eq(t, Zero, Sin(Zero))
	eq(t, One, Cos(Zero))
	eq(t, Zero, Sin(Pi))
	eq(t, NegativeOne, Cos(Pi))
	eq(t, One, Sin(NewMul(Half, Pi)))
	eq(t, NegativeOne, Sin(NewMul(NewRat(3, 2), Pi)))
	eq(t, Zero, Cos(NewMul(NewRat(5, 2), Pi)))
	eq(t, Neg(Sin(x)), Sin(Neg(x)))
	eq(t, Cos(x), Cos(Neg(x)))

	eq(t, NewMul(NewRat(1, 4), Pi), Atan2(One, One))
	eq(t, NewMul(NewRat(-3, 4), Pi), Atan2(NewInt(-2), NewInt(-2)))
	eq(t, Pi, Atan2(Zero, NegativeOne))
	eq(t, NewMul(Half, Pi), Atan2(p, Zero))
	eq(t, NaN, Atan2(Zero, Zero))
}

func TestOrderTerm(t *testing.T) {
	eq(t, Zero, Order(Zero))
	eq(t, Order(One), Order(three))
	eq(t, Order(x), Order(NewMul(Two, x)))
	eq(t, Order(x), NewMul(three, Order(x)))
}

func TestNewFuncArity(t *testing.T) {
	_, err := NewFuncChecked(FnAtan2, x)
	assert.ErrorIs(t, err, ErrArity)
	_, err = NewFuncChecked(FnLog, x, y)
	assert.ErrorIs(t, err, ErrArity)
	assert.Panics(t, func() { NewFunc(FnSin) })

	e, err := NewFuncChecked(FnSin, x)
	require.NoError(t, err)
	eq(t, Sin(x), e)
	eq(t, NaN, Log(NaN))
}
