package shrink

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/symbolic_power/pkg/expr"
	"github.com/wildfunctions/symbolic_power/pkg/pool"
)

func conservative(t *testing.T) pool.Pool {
	t.Helper()
	p, err := pool.Get("conservative")
	require.NoError(t, err)
	return p
}

func TestMinimizeKeepsFailure(t *testing.T) {
	x, y := expr.Sym("x"), expr.Sym("y")
	root := &pool.Tree{Op: pool.OpAdd, Args: []*pool.Tree{
		{Op: pool.OpMul, Args: []*pool.Tree{
			pool.Leaf(expr.NewInt(3)),
			{Op: pool.OpPow, Args: []*pool.Tree{pool.Leaf(x), pool.Leaf(expr.Two)}},
		}},
		{Op: pool.OpAdd, Args: []*pool.Tree{pool.Leaf(y), pool.Leaf(expr.NewInt(5))}},
	}}
	hasX := func(t *pool.Tree) bool { return expr.Has(t.Build(), x) }

	got := Minimize(root, conservative(t), rand.New(rand.NewSource(1)), hasX)
	assert.Same(t, x, got.Build())
	assert.Equal(t, 1, got.Size())
}

func TestMinimizeShrinksNumbers(t *testing.T) {
	big := func(t *pool.Tree) bool {
		n, ok := t.Build().(*expr.Number)
		return ok && n.Num().Int64() > 10
	}
	got := Minimize(pool.Leaf(expr.NewInt(1000)), conservative(t), rand.New(rand.NewSource(1)), big)
	assert.Same(t, expr.NewInt(15), got.Build())
}

func TestMinimizeNeverGrows(t *testing.T) {
	p := conservative(t)
	rng := rand.New(rand.NewSource(7))
	always := func(*pool.Tree) bool { return true }
	for i := 0; i < 20; i++ {
		root := p.RandomTree(rng, 4)
		got := Minimize(root, p, rng, always)
		assert.LessOrEqual(t, Score(got), Score(root))
	}
}

func TestNeighbours(t *testing.T) {
	x := expr.Sym("x")
	root := &pool.Tree{Op: pool.OpPow, Args: []*pool.Tree{pool.Leaf(x), pool.Leaf(expr.NewRat(3, 2))}}
	var got []string
	for _, n := range neighbours(root) {
		got = append(got, n.String())
	}
	assert.Equal(t, []string{
		"x", "3/2",
		"pow(x, 0)", "pow(x, 1)", "pow(x, 3)",
	}, got)
}

func TestSmallerNumbers(t *testing.T) {
	render := func(n *expr.Number) []string {
		var out []string
		for _, m := range smallerNumbers(n) {
			out = append(out, m.String())
		}
		return out
	}
	assert.Equal(t, []string{"0", "1", "3"}, render(expr.NewRat(3, 2)))
	assert.Equal(t, []string{"0", "-1", "-3", "-7"}, render(expr.NewRat(-7, 2)))
	assert.Equal(t, []string{"0", "1", "6"}, render(expr.NewInt(12)))
	assert.Equal(t, []string{"0"}, render(expr.One))
}
