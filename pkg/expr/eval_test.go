package expr

import (
	"math"
	"math/big"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/symbolic_power/pkg/evalf"
)

func TestEvalfConstants(t *testing.T) {
	cases := []struct {
		e      Expr
		digits int
		want   string
	}{
		{Pi, 40, "3.1415926535897932384626433832795028841972"},
		{Sqrt(Two), 40, "1.4142135623730950488016887242096980785697"},
		{E, 30, "2.718281828459045235360287471353"},
		{NewRat(1, 8), 3, "0.125"},
	}
	for _, tc := range cases {
		v, err := Evalf(tc.e, 200, nil)
		require.NoError(t, err, "%s", tc.e)
		assert.Equal(t, tc.want, v.Re.Text('f', tc.digits), "%s", tc.e)
		assert.Zero(t, v.Im.Sign(), "%s", tc.e)
		assert.Equal(t, uint(200), v.Prec())
	}
}

func TestEvalfComplex(t *testing.T) {
	v, err := Evalf(Exp(NewMul(NewRat(1, 3), I, Pi)), 64, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, real(v.Complex128()), 1e-15)
	assert.InDelta(t, math.Sqrt(3)/2, imag(v.Complex128()), 1e-15)

	v, err = Evalf(Log(y), 64, map[*Symbol]evalf.Num{y: evalf.FromInt64(-1, 64)})
	require.NoError(t, err)
	assert.InDelta(t, 0, real(v.Complex128()), 1e-15)
	assert.InDelta(t, math.Pi, imag(v.Complex128()), 1e-15)

	v, err = Evalf(Sign(x), 64, map[*Symbol]evalf.Num{x: evalf.Complex(big.NewFloat(3), big.NewFloat(4))})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, real(v.Complex128()), 1e-15)
	assert.InDelta(t, 0.8, imag(v.Complex128()), 1e-15)
}

func TestEvalfFloor(t *testing.T) {
	at := func(v *big.Rat) map[*Symbol]evalf.Num {
		return map[*Symbol]evalf.Num{x: evalf.FromRat(v, 64)}
	}
	v, err := Evalf(Floor(x), 64, at(big.NewRat(5, 2)))
	require.NoError(t, err)
	f, _ := v.Re.Float64()
	assert.Equal(t, 2.0, f)

	v, err = Evalf(Floor(x), 64, at(big.NewRat(-5, 2)))
	require.NoError(t, err)
	f, _ = v.Re.Float64()
	assert.Equal(t, -3.0, f)

	// an exact integer cannot be told apart from a value just below it
	_, err = Evalf(Floor(x), 64, at(big.NewRat(3, 1)))
	assert.ErrorIs(t, err, evalf.ErrPrecisionExhausted)
}

func TestEvalfErrors(t *testing.T) {
	zero := map[*Symbol]evalf.Num{x: evalf.FromInt64(0, 64), y: evalf.FromInt64(0, 64)}
	cases := []struct {
		e    Expr
		subs map[*Symbol]evalf.Num
		want error
	}{
		{x, nil, evalf.ErrNotNumeric},
		{Infinity, nil, evalf.ErrNotNumeric},
		{NaN, nil, evalf.ErrNotNumeric},
		{Order(x), zero, evalf.ErrNotNumeric},
		{Arg(x), zero, evalf.ErrUndefined},
		{Atan2(y, x), zero, evalf.ErrUndefined},
		{NewPow(x, NegativeOne), zero, evalf.ErrUndefined},
		{Log(x), zero, evalf.ErrUndefined},
	}
	for _, tc := range cases {
		_, err := Evalf(tc.e, 64, tc.subs)
		assert.ErrorIs(t, err, tc.want, "%s", tc.e)
	}
}

func TestEvalComplex128MatchesEvalf(t *testing.T) {
	xv, yv := complex(0.7, 0.2), complex(-1.3, 0)
	machine := map[*Symbol]complex128{x: xv, y: yv}
	exact := map[*Symbol]evalf.Num{
		x: evalf.Complex(big.NewFloat(real(xv)), big.NewFloat(imag(xv))),
		y: evalf.Real(big.NewFloat(real(yv))),
	}
	exprs := []Expr{
		Sqrt(x),
		NewPow(x, y),
		Log(y),
		Exp(x),
		Sin(NewMul(x, y)),
		Cos(x),
		Abs(x),
		Sign(x),
		Arg(y),
		Atan2(y, Re(x)),
		NewMul(Conjugate(x), x),
		NewPow(y, NewRat(1, 3)),
		NewPow(NewAdd(x, y), NewInt(-3)),
		Floor(NewMul(three, y)),
		Im(Log(x)),
		NewAdd(NewPow(x, NewInt(40)), Pi),
	}
	for _, e := range exprs {
		got, ok := EvalComplex128(e, machine)
		require.True(t, ok, "%s", e)
		v, err := Evalf(e, 96, exact)
		require.NoError(t, err, "%s", e)
		want := v.Complex128()
		assert.LessOrEqual(t, cmplx.Abs(got-want), 1e-12*(1+cmplx.Abs(want)), "%s: got %v want %v", e, got, want)
	}
}

func TestEvalComplex128Branches(t *testing.T) {
	// conj(-4) carries a negative zero imaginary part
	got, ok := EvalComplex128(Sqrt(Conjugate(y)), map[*Symbol]complex128{y: -4})
	require.True(t, ok)
	assert.Equal(t, complex(0, 2), got)

	got, ok = EvalComplex128(NewPow(y, NewInt(-2)), map[*Symbol]complex128{y: 2i})
	require.True(t, ok)
	assert.Equal(t, complex(-0.25, 0), got)
}

func TestEvalComplex128HalfPowers(t *testing.T) {
	at := func(v complex128) map[*Symbol]complex128 { return map[*Symbol]complex128{y: v} }
	cases := []struct {
		e    Expr
		v    complex128
		want complex128
	}{
		{Sqrt(y), -9, complex(0, 3)},
		{NewPow(y, NewRat(3, 2)), -4, complex(0, -8)},
		{NewPow(y, NewRat(-1, 2)), -4, complex(0, -0.5)},
		{NewPow(y, NewRat(5, 2)), 4, 32},
		{Sqrt(y), 2i, complex(1, 1)},
	}
	for _, c := range cases {
		got, ok := EvalComplex128(c.e, at(c.v))
		require.True(t, ok, "%s", c.e)
		assert.Equal(t, c.want, got, "%s at %v", c.e, c.v)
	}
}

func TestEvalComplex128Fails(t *testing.T) {
	zero := map[*Symbol]complex128{x: 0}
	for _, e := range []Expr{
		NewPow(x, NegativeOne),
		Log(x),
		Atan2(x, x),
		Floor(NewAdd(x, I)),
		y,
		ComplexInfinity,
	} {
		_, ok := EvalComplex128(e, zero)
		assert.False(t, ok, "%s", e)
	}
}
