package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestExpandMultinomial(t *testing.T) {
	sq := NewAdd(NewPow(x, Two), NewMul(Two, x), One)
	eq(t, sq, ExpandMultinomial(NewPow(NewAdd(x, One), Two)))
	eq(t, NewPow(sq, NegativeOne), ExpandMultinomial(NewPow(NewAdd(x, One), NewInt(-2))))
	eq(t, NewMul(Two, I), ExpandMultinomial(NewPow(NewAdd(One, I), Two)))
	eq(t, NewMul(NewInt(-2), I), ExpandMultinomial(NewPow(NewAdd(Half, NewMul(Half, I)), NewInt(-2))))
	eq(t, NewMul(four, NewPow(Two, x)), ExpandMultinomial(NewPow(Two, NewAdd(x, Two))))

	cube := ExpandMultinomial(NewPow(NewAdd(x, y, z), three))
	assert.Len(t, cube.Args(), 10)

	// (x + 1)**(3/2) = x*sqrt(x + 1) + sqrt(x + 1)
	s := Sqrt(NewAdd(x, One))
	eq(t, NewAdd(NewMul(x, s), s), ExpandMultinomial(NewPow(NewAdd(x, One), NewRat(3, 2))))

	// nothing to expand
	e := NewPow(NewAdd(x, One), y)
	eq(t, e, ExpandMultinomial(e))
	e = Sqrt(NewAdd(x, One))
	eq(t, e, ExpandMultinomial(e))
}

func TestExpandMultinomialOrderTerm(t *testing.T) {
	e := NewPow(NewAdd(x, Order(NewPow(x, Two))), Two)
	want := NewAdd(NewPow(x, Two), NewMul(Two, x, Order(NewPow(x, Two))))
	eq(t, want, ExpandMultinomial(e))
}

func TestExpandMul(t *testing.T) {
	eq(t, NewAdd(NewMul(x, y), x), ExpandMul(NewMul(x, NewAdd(y, One))))
	eq(t, NewAdd(NewMul(x, z), NewMul(y, z), x, y),
		ExpandMul(NewMul(NewAdd(x, y), NewAdd(z, One))))
	eq(t, x, ExpandMul(x))
}

func TestExpandPowerBase(t *testing.T) {
	xy := NewPow(NewMul(x, y), z)
	eq(t, NewMul(NewPow(x, z), NewPow(y, z)), ExpandPowerBase(xy, true))
	assert.Equal(t, "(x*y)**z", ExpandPowerBase(xy, false).String())

	eq(t, NewMul(NewPow(p, z), NewPow(x, z)), ExpandPowerBase(NewPow(NewMul(p, x), z), false))
	eq(t, NewMul(NewPow(x, n), NewPow(y, n)), ExpandPowerBase(NewPow(NewMul(x, y), n), false))
}

func TestExpandPowerExp(t *testing.T) {
	eq(t, NewMul(p, NewPow(p, x)), ExpandPowerExp(NewPow(p, NewAdd(x, One))))
	eq(t, NewMul(NewPow(x, p), NewPow(x, Two)), ExpandPowerExp(NewPow(x, NewAdd(p, Two))))

	// x may be zero and 1 - p changes sign
	e := NewPow(x, NewAdd(y, One))
	eq(t, e, ExpandPowerExp(e))
	eq(t, NewMul(x, NewPow(x, y)), Expand(e, Hints{PowerExp: true, Force: true}))
}

func TestExpandDeep(t *testing.T) {
	e := NewMul(x, NewPow(NewAdd(x, One), Two))
	want := NewAdd(NewPow(x, three), NewMul(Two, NewPow(x, Two)), x)
	eq(t, want, Expand(e, DefaultHints()))

	shallow := DefaultHints()
	shallow.Deep = false
	eq(t, e, Expand(e, Hints{}))
	nested := Sin(NewPow(NewAdd(x, One), Two))
	eq(t, nested, Expand(nested, shallow))
	eq(t, Sin(NewAdd(NewPow(x, Two), NewMul(Two, x), One)), Expand(nested, DefaultHints()))
}

func TestHintsYAML(t *testing.T) {
	var h Hints
	err := yaml.Unmarshal([]byte("mul: true\nforce: true\ndeep: true\n"), &h)
	assert.NoError(t, err)
	assert.Equal(t, Hints{Mul: true, Force: true, Deep: true}, h)
}
