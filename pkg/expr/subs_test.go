package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubsAtoms(t *testing.T) {
	eq(t, NewAdd(NewPow(z, Two), z), Subs(NewAdd(NewPow(x, Two), x), x, z))
	eq(t, Zero, Subs(Sin(x), x, Pi))
	eq(t, One, Subs(NewPow(x, y), y, Zero))
	eq(t, NewAdd(x, y), Subs(NewAdd(x, y), z, One))
	eq(t, four, Subs(NewPow(x, Two), x, Two))
}

func TestSubsPartialSumsAndProducts(t *testing.T) {
	eq(t, NewAdd(z, One), Subs(NewAdd(x, y, One), NewAdd(x, y), z))
	eq(t, NewMul(Two, z), Subs(NewMul(Two, x, y), NewMul(x, y), z))

	// old must match a strict subset of the arguments
	e := NewAdd(x, One)
	eq(t, e, Subs(e, NewAdd(x, y), z))
}

func TestSubsPowers(t *testing.T) {
	cases := []struct {
		e, old, want Expr
	}{
		{NewPow(four, x), NewPow(Two, x), NewPow(z, Two)},
		{NewPow(NewInt(8), x), NewPow(four, x), NewPow(z, NewRat(3, 2))},
		{NewPow(x, four), NewPow(x, Two), NewPow(z, Two)},
		{NewPow(p, three), NewPow(p, Two), NewPow(z, NewRat(3, 2))},
		{NewPow(y, NewAdd(NewMul(NewInt(6), x), One)), NewPow(y, NewMul(three, x)), NewMul(y, NewPow(z, Two))},
		{NewPow(Two, r), Exp(r), NewPow(z, Log(Two))},
	}
	for _, tc := range cases {
		eq(t, tc.want, Subs(tc.e, tc.old, z), "(%s).subs(%s, z)", tc.e, tc.old)
	}
}

func TestSubsPowersNeedingBranchCorrection(t *testing.T) {
	// x**3 is not (x**2)**(3/2) for negative x
	e := NewPow(x, three)
	eq(t, e, Subs(e, NewPow(x, Two), z))

	e = NewPow(NewInt(6), x)
	eq(t, e, Subs(e, NewPow(Two, x), z))
}

func TestSubsMap(t *testing.T) {
	got := SubsMap(NewAdd(x, y), [][2]Expr{{x, y}, {y, z}})
	eq(t, NewMul(Two, z), got)
}

func TestTransformVisitsChildrenFirst(t *testing.T) {
	root := NewAdd(Sin(x), y)
	pos := map[Expr]int{}
	Transform(root, func(e Expr) Expr {
		pos[e] = len(pos)
		return e
	})
	assert.Len(t, pos, 4)
	assert.Less(t, pos[x], pos[Sin(x)])
	assert.Equal(t, 3, pos[root])
}

func TestLogRatio(t *testing.T) {
	l, ok := logRatio(NewInt(27), NewInt(9))
	assert.True(t, ok)
	eq(t, NewRat(3, 2), l)

	_, ok = logRatio(NewInt(6), Two)
	assert.False(t, ok)
	_, ok = logRatio(One, Two)
	assert.False(t, ok)
	_, ok = logRatio(x, Two)
	assert.False(t, ok)
}
