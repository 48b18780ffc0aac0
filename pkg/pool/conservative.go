package pool

import (
	"math/rand"

	"github.com/wildfunctions/symbolic_power/pkg/expr"
)

func init() {
	Register("conservative", func() Pool { return &ConservativePool{} })
}

// ConservativePool provides basic building blocks: two plain symbols,
// small integers, and sums, products and powers with integer or half
// integer exponents.
type ConservativePool struct{}

var (
	symX = expr.Sym("x")
	symY = expr.Sym("y")
)

func (p *ConservativePool) Name() string { return "conservative" }

func (p *ConservativePool) Symbols() []*expr.Symbol { return []*expr.Symbol{symX, symY} }

func (p *ConservativePool) RandomLeaf(rng *rand.Rand) expr.Expr {
	if rng.Float64() < 0.5 {
		return pick(rng, p.Symbols())
	}
	return smallInt(rng, -3, 5)
}

var conservativeExps = []expr.Expr{
	expr.NewInt(-2), expr.NegativeOne, expr.Two, expr.NewInt(3),
	expr.Half, expr.NewRat(-1, 2), expr.NewRat(3, 2),
}

func (p *ConservativePool) RandomExponent(rng *rand.Rand) expr.Expr {
	return pick(rng, conservativeExps)
}

var conservativeOps = []Op{OpAdd, OpMul, OpPow}

func (p *ConservativePool) RandomOp(rng *rand.Rand) Op {
	return pick(rng, conservativeOps)
}

func (p *ConservativePool) RandomFunc(*rand.Rand) (expr.FuncKind, bool) { return 0, false }

func (p *ConservativePool) RandomTree(rng *rand.Rand, maxDepth int) *Tree {
	return randomTree(p, rng, maxDepth)
}
