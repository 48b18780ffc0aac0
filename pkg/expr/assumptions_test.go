package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
	"github.com/wildfunctions/symbolic_power/pkg/logic"
)

func TestPowFacts(t *testing.T) {
	cases := []struct {
		e    Expr
		prop assume.Property
		want logic.Tri
	}{
		{NewPow(p, r), assume.Positive, logic.True},
		{NewPow(r, Two), assume.Nonnegative, logic.True},
		{NewPow(r, Two), assume.Positive, logic.Unknown},
		{NewPow(r, three), assume.Real, logic.True},
		{NewPow(n, Two), assume.Integer, logic.True},
		{NewPow(Two, n), assume.Rational, logic.True},
		{NewPow(Two, n), assume.Positive, logic.True},
		{NewPow(Two, n), assume.Integer, logic.Unknown},
		{NewPow(k, Two), assume.Negative, logic.True},
		{NewPow(k, three), assume.Imaginary, logic.True},
		{NewPow(q, Half), assume.Imaginary, logic.True},
		{NewPow(q, Half), assume.ExtendedReal, logic.False},
		{NewPow(q, three), assume.Negative, logic.True},
		{NewPow(q, NewInt(4)), assume.Positive, logic.True},
		{NewPow(q, NegativeOne), assume.Negative, logic.True},
		{Exp(r), assume.Positive, logic.True},
		{Exp(x), assume.Zero, logic.Unknown},
		{NewPow(x, y), assume.Positive, logic.Unknown},
		{Sqrt(Two), assume.Irrational, logic.True},
		{Sqrt(Two), assume.Algebraic, logic.True},
		{Sqrt(Two), assume.Positive, logic.True},
		{NewPow(Zero, x), assume.Zero, logic.Unknown},
		{NewPow(p, NegativeOne), assume.Finite, logic.True},
		{NewPow(NewAdd(One, p), NegativeOne), assume.Integer, logic.False},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.e.Is(tc.prop), "%s is %s", tc.e, tc.prop)
	}
}

func TestPowParityFacts(t *testing.T) {
	m := Sym("m", assume.Integer, assume.Nonnegative)
	cases := []struct {
		e    Expr
		prop assume.Property
		want logic.Tri
	}{
		{NewPow(three, m), assume.Odd, logic.True},
		{NewPow(three, m), assume.Even, logic.False},
		{NewPow(NegativeOne, n), assume.Odd, logic.True},
		{NewPow(NegativeOne, n), assume.Integer, logic.True},
		{NewPow(Two, m), assume.Odd, logic.Unknown},
		{NewPow(n, m), assume.Odd, logic.Unknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.e.Is(tc.prop), "%s is %s", tc.e, tc.prop)
	}
}

func TestImaginaryBaseSymbolicExponent(t *testing.T) {
	fourN := NewMul(four, n)
	cases := []struct {
		e    Expr
		prop assume.Property
		want logic.Tri
	}{
		{NewPow(k, fourN), assume.Positive, logic.True},
		{NewPow(k, fourN), assume.Negative, logic.False},
		{NewPow(k, NewAdd(fourN, Two)), assume.Negative, logic.True},
		{NewPow(k, NewAdd(fourN, Two)), assume.Positive, logic.False},
		{NewPow(k, NewMul(Two, n)), assume.Real, logic.True},
		{NewPow(k, NewMul(Two, n)), assume.Negative, logic.Unknown},
		{NewPow(k, NewAdd(NewMul(Two, n), One)), assume.Negative, logic.False},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.e.Is(tc.prop), "%s is %s", tc.e, tc.prop)
	}
}

func TestUnevaluatedRationalPowers(t *testing.T) {
	// too large to build, but the square root of 4 is exact
	huge := NewPow(four, NewRat(70001, 2))
	_, raw := huge.(*Pow)
	require.True(t, raw, "%s", huge)
	assert.Equal(t, logic.True, huge.Is(assume.Integer))
	assert.Equal(t, logic.True, huge.Is(assume.Rational))
	assert.Equal(t, logic.False, huge.Is(assume.Irrational))

	small := NewPow(four, NewRat(-70001, 2))
	_, raw = small.(*Pow)
	require.True(t, raw, "%s", small)
	assert.Equal(t, logic.False, small.Is(assume.Integer))
	assert.Equal(t, logic.True, small.Is(assume.Rational))

	assert.Equal(t, logic.False, NewPow(three, Half).Is(assume.Rational))
	assert.Equal(t, logic.False, NewPow(NewInt(-2), NewRat(1, 3)).Is(assume.Rational))
}

func TestAbsFacts(t *testing.T) {
	ka := Sym("ka", assume.Imaginary, assume.Algebraic)
	cases := []struct {
		e    Expr
		prop assume.Property
		want logic.Tri
	}{
		{Abs(k), assume.Integer, logic.Unknown},
		{Abs(k), assume.Rational, logic.Unknown},
		{Abs(k), assume.Odd, logic.Unknown},
		{Abs(k), assume.Zero, logic.False},
		{Abs(ka), assume.Algebraic, logic.True},
		{Abs(ka), assume.Rational, logic.Unknown},
		{Abs(n), assume.Integer, logic.True},
		{Abs(r), assume.Real, logic.True},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.e.Is(tc.prop), "%s is %s", tc.e, tc.prop)
	}
}

func TestSymbolFactsAreClosed(t *testing.T) {
	assert.Equal(t, logic.True, p.Is(assume.Nonzero))
	assert.Equal(t, logic.True, p.Is(assume.Real))
	assert.Equal(t, logic.False, p.Is(assume.Negative))
	assert.Equal(t, logic.True, n.Is(assume.Rational))
	assert.Equal(t, logic.False, k.Is(assume.ExtendedReal))
	assert.Equal(t, logic.Unknown, x.Is(assume.Real))
}

func TestAddMulFacts(t *testing.T) {
	cases := []struct {
		e    Expr
		prop assume.Property
		want logic.Tri
	}{
		{NewAdd(p, One), assume.Positive, logic.True},
		{NewAdd(q, NegativeOne), assume.Negative, logic.True},
		{NewAdd(p, q), assume.Real, logic.True},
		{NewAdd(p, q), assume.Positive, logic.Unknown},
		{NewAdd(r, I), assume.ExtendedReal, logic.False},
		{NewAdd(r, I), assume.Zero, logic.False},
		{NewAdd(NewMul(Two, n), One), assume.Odd, logic.True},
		{NewMul(p, q), assume.Negative, logic.True},
		{NewMul(q, q, p), assume.Positive, logic.True},
		{NewMul(I, p), assume.Imaginary, logic.True},
		{NewMul(I, k), assume.Real, logic.True},
		{NewMul(Two, n), assume.Even, logic.True},
		{NewMul(Pi, p), assume.Positive, logic.True},
		{NewAdd(Pi, One), assume.Irrational, logic.True},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.e.Is(tc.prop), "%s is %s", tc.e, tc.prop)
	}
}

func TestNumericFacts(t *testing.T) {
	// no structural rule decides these signs
	d := Sub(Pi, three)
	assert.Equal(t, logic.True, d.Is(assume.Positive))
	assert.Equal(t, logic.True, Sub(three, Pi).Is(assume.Negative))
	assert.Equal(t, logic.True, Sub(Sqrt(Two), NewRat(7, 5)).Is(assume.Positive))

	c := NewAdd(Sqrt(Two), I)
	assert.Equal(t, logic.False, c.Is(assume.ExtendedReal))
	assert.Equal(t, logic.False, c.Is(assume.Imaginary))
}

func TestFactsAreConsistent(t *testing.T) {
	exprs := []Expr{
		NewPow(p, r), NewPow(q, Half), NewPow(k, three), Exp(NewMul(I, p)),
		NewAdd(x, Sqrt(Two)), NewMul(q, Log(p)), Abs(x), Sign(k), Floor(r),
		NewPow(NewAdd(p, I), NewRat(1, 3)), Sub(Pi, E),
	}
	for _, e := range exprs {
		_, err := assume.Deduce(e.Facts())
		assert.NoError(t, err, "%s", e)
	}
}
