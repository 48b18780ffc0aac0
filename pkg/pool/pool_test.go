package pool

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/symbolic_power/pkg/expr"
)

// genericPoint binds every symbol of p to a value consistent with its
// assumptions.
func genericPoint(p Pool) map[*expr.Symbol]complex128 {
	vals := map[string]complex128{
		"x": complex(0.7, 0.3), "y": complex(-1.2, 0.5),
		"p": 1.5, "q": -0.8, "r": -2.25, "n": 3, "k": complex(0, 1.75),
	}
	out := make(map[*expr.Symbol]complex128)
	for _, s := range p.Symbols() {
		out[s] = vals[s.Name()]
	}
	return out
}

func evalRate(t *testing.T, name string) float64 {
	t.Helper()
	p, err := Get(name)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(42))
	pt := genericPoint(p)

	successes, total := 0, 1000
	for i := 0; i < total; i++ {
		tree := p.RandomTree(rng, 3)
		if _, ok := expr.EvalComplex128(tree.Build(), pt); ok {
			successes++
		}
	}
	t.Logf("%s pool: %d/%d trees evaluated cleanly", name, successes, total)
	return float64(successes) / float64(total)
}

func TestConservativePool(t *testing.T) {
	assert.GreaterOrEqual(t, evalRate(t, "conservative"), 0.5)
}

func TestModeratePool(t *testing.T) {
	assert.GreaterOrEqual(t, evalRate(t, "moderate"), 0.3)
}

func TestKitchenSinkPool(t *testing.T) {
	assert.GreaterOrEqual(t, evalRate(t, "kitchensink"), 0.2)
}

func TestPoolRegistry(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"conservative", "kitchensink", "moderate"}, names)
	for _, name := range names {
		p, err := Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
		assert.NotEmpty(t, p.Symbols())
	}
}

func TestUnknownPool(t *testing.T) {
	_, err := Get("nonexistent")
	assert.ErrorIs(t, err, ErrUnknownPool)
}

func TestTreeBuildAndEval(t *testing.T) {
	x := expr.Sym("x")
	sq := &Tree{Op: OpPow, Args: []*Tree{Leaf(x), Leaf(expr.Two)}}
	assert.Same(t, expr.NewPow(x, expr.Two), sq.Build())
	assert.Equal(t, "pow(x, 2)", sq.String())

	root := &Tree{Op: OpPow, Args: []*Tree{Leaf(expr.NewInt(-4)), Leaf(expr.Half)}}
	v, ok := root.Eval(nil)
	require.True(t, ok)
	assert.InDelta(t, 0, real(v), 1e-15)
	assert.InDelta(t, 2, imag(v), 1e-15)

	lg := &Tree{Op: OpFunc, Fn: expr.FnLog, Args: []*Tree{Leaf(expr.NegativeOne)}}
	v, ok = lg.Eval(nil)
	require.True(t, ok)
	assert.InDelta(t, 3.141592653589793, imag(v), 1e-15)

	// the recorded construction is evaluated as written
	nested := &Tree{Op: OpPow, Args: []*Tree{sq, Leaf(expr.Half)}}
	v, ok = nested.Eval(map[*expr.Symbol]complex128{x: -3})
	require.True(t, ok)
	assert.InDelta(t, 3, real(v), 1e-12)
}

func TestTreeSlotsAndClone(t *testing.T) {
	x := expr.Sym("x")
	root := &Tree{Op: OpAdd, Args: []*Tree{
		Leaf(x),
		{Op: OpMul, Args: []*Tree{Leaf(expr.Two), Leaf(x)}},
	}}
	assert.Equal(t, 5, root.Size())
	slots := Slots(&root)
	require.Len(t, slots, root.Size())
	assert.Same(t, root, *slots[0])

	c := root.Clone()
	*Slots(&c)[2] = Leaf(expr.One)
	assert.Equal(t, "add(x, mul(2, x))", root.String())
	assert.Equal(t, "add(x, 1)", c.String())
	assert.Same(t, expr.NewAdd(x, expr.One), c.Build())
}
