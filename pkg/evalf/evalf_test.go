package evalf

import (
	"math"
	"math/big"
	"math/cmplx"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrec = 256

func bf(v float64) *big.Float { return newFloat(testPrec).SetFloat64(v) }

func f64(x *big.Float) float64 {
	f, _ := x.Float64()
	return f
}

func TestPi(t *testing.T) {
	want := "3.141592653589793238462643383279502884197169399375"
	got := Pi(200).Text('f', 48)
	assert.Equal(t, want, got)
	assert.Equal(t, math.Pi, f64(Pi(53)))
}

func TestSinCos(t *testing.T) {
	for _, x := range []float64{0.1, 1, -2.5, 3.14159, 10, -100, 12345.678} {
		s, c := SinCos(bf(x))
		assert.InDelta(t, math.Sin(x), f64(s), 1e-12, "sin(%v)", x)
		assert.InDelta(t, math.Cos(x), f64(c), 1e-12, "cos(%v)", x)
	}
}

func TestAtan2(t *testing.T) {
	cases := [][2]float64{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}, {0, -1}, {3, 0}, {-3, 0}, {1e-5, 7}, {50, 0.2}}
	for _, c := range cases {
		got := f64(Atan2(bf(c[0]), bf(c[1])))
		assert.InDelta(t, math.Atan2(c[0], c[1]), got, 1e-14, "atan2(%v, %v)", c[0], c[1])
	}
	neg := newFloat(testPrec).Neg(bf(0))
	assert.InDelta(t, math.Pi, f64(Atan2(neg, bf(-1))), 1e-14)
}

func TestComplexArithmetic(t *testing.T) {
	z := Complex(bf(1), bf(2))
	w := Complex(bf(-3), bf(0.5))

	assert.InDelta(t, 0, cmplx.Abs(Mul(z, w).Complex128()-(1+2i)*(-3+0.5i)), 1e-14)
	q, err := Quo(z, w)
	require.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(q.Complex128()-(1+2i)/(-3+0.5i)), 1e-14)

	_, err = Quo(z, FromInt64(0, testPrec))
	assert.Equal(t, ErrUndefined, errors.Cause(err))
}

func TestExpLogPow(t *testing.T) {
	z := Complex(bf(0.5), bf(-1.25))
	want := cmplx.Exp(0.5 - 1.25i)
	assert.InDelta(t, 0, cmplx.Abs(Exp(z).Complex128()-want), 1e-14)

	l, err := Log(Complex(bf(-2), bf(0)))
	require.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(l.Complex128()-cmplx.Log(-2)), 1e-14)

	p, err := Pow(FromInt64(-8, testPrec), Real(bf(1.0/3)))
	require.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(p.Complex128()-cmplx.Pow(-8, 1.0/3)), 1e-13)

	p, err = Pow(Complex(bf(1), bf(1)), FromInt64(4, testPrec))
	require.NoError(t, err)
	assert.True(t, p.IsReal())
	assert.Equal(t, -4.0, f64(p.Re))

	_, err = Pow(FromInt64(0, testPrec), FromInt64(-1, testPrec))
	assert.Error(t, err)
	_, err = Log(FromInt64(0, testPrec))
	assert.Error(t, err)
}

func TestSinCosComplex(t *testing.T) {
	z := Complex(bf(0.7), bf(-0.3))
	assert.InDelta(t, 0, cmplx.Abs(Sin(z).Complex128()-cmplx.Sin(0.7-0.3i)), 1e-14)
	assert.InDelta(t, 0, cmplx.Abs(Cos(z).Complex128()-cmplx.Cos(0.7-0.3i)), 1e-14)
}

func TestCertifiedSignAndFloor(t *testing.T) {
	s, err := Sign(bf(-0.25), testPrec)
	require.NoError(t, err)
	assert.Equal(t, -1, s)

	tiny := newFloat(testPrec).SetMantExp(bf(1), -200)
	_, err = Sign(tiny, testPrec)
	assert.Equal(t, ErrPrecisionExhausted, errors.Cause(err))

	fl, err := Floor(bf(-1.5), testPrec)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), fl.Int64())

	_, err = Floor(bf(3), testPrec)
	assert.Equal(t, ErrPrecisionExhausted, errors.Cause(err))
}
