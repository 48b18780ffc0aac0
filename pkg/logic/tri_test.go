package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAndOr(t *testing.T) {
	cases := []struct {
		in      []Tri
		and, or Tri
	}{
		{nil, True, False},
		{[]Tri{True, True}, True, True},
		{[]Tri{True, Unknown}, Unknown, True},
		{[]Tri{False, Unknown}, False, Unknown},
		{[]Tri{Unknown, Unknown}, Unknown, Unknown},
		{[]Tri{False, True}, False, True},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.and, And(tc.in...), "And(%v)", tc.in)
		assert.Equal(t, tc.or, Or(tc.in...), "Or(%v)", tc.in)
	}
}

func TestLazyShortCircuit(t *testing.T) {
	called := false
	boom := func() Tri { called = true; return True }

	assert.Equal(t, False, AndFunc(func() Tri { return False }, boom))
	assert.False(t, called)

	assert.Equal(t, True, OrFunc(func() Tri { return True }, boom))
	assert.False(t, called)
}

func TestNotXorImplies(t *testing.T) {
	assert.Equal(t, False, True.Not())
	assert.Equal(t, Unknown, Unknown.Not())
	assert.Equal(t, True, Xor(True, False))
	assert.Equal(t, Unknown, Xor(True, Unknown))
	assert.Equal(t, True, Implies(False, Unknown))
	assert.Equal(t, Unknown, Implies(True, Unknown))
	assert.Equal(t, "unknown", Unknown.String())
}
