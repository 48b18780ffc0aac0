package pool

import (
	"math/rand"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
	"github.com/wildfunctions/symbolic_power/pkg/expr"
)

func init() {
	Register("kitchensink", func() Pool { return &KitchenSinkPool{} })
}

// KitchenSinkPool extends moderate with pi, e, an imaginary symbol, every
// function and exponents that exercise the exponential rules.
type KitchenSinkPool struct{}

var symK = expr.Sym("k", assume.Imaginary)

func (p *KitchenSinkPool) Name() string { return "kitchensink" }

func (p *KitchenSinkPool) Symbols() []*expr.Symbol {
	return []*expr.Symbol{symX, symY, symP, symQ, symR, symN, symK}
}

func (p *KitchenSinkPool) RandomLeaf(rng *rand.Rand) expr.Expr {
	r := rng.Float64()
	switch {
	case r < 0.45:
		return pick(rng, p.Symbols())
	case r < 0.7:
		return smallInt(rng, -4, 6)
	case r < 0.8:
		return expr.NewRat(int64(rng.Intn(9)-4), int64(rng.Intn(3)+2))
	default:
		return pick(rng, []expr.Expr{expr.I, expr.Pi, expr.E})
	}
}

var kitchenSinkExps = []expr.Expr{
	expr.NegativeOne, expr.Two, expr.NewInt(-2), expr.NewInt(3),
	expr.Half, expr.NewRat(-1, 2), expr.NewRat(1, 3), expr.NewRat(3, 2),
	symN, symR, symK, expr.NewMul(expr.I, expr.Pi), expr.NewMul(expr.Half, expr.I, expr.Pi),
	expr.Log(symP), expr.NewMul(expr.Two, expr.Log(symX)), expr.Quo(symX, expr.Log(expr.Two)),
}

func (p *KitchenSinkPool) RandomExponent(rng *rand.Rand) expr.Expr {
	return pick(rng, kitchenSinkExps)
}

var kitchenSinkOps = []Op{OpAdd, OpMul, OpPow, OpPow}

func (p *KitchenSinkPool) RandomOp(rng *rand.Rand) Op {
	return pick(rng, kitchenSinkOps)
}

var kitchenSinkFuncs = []expr.FuncKind{
	expr.FnLog, expr.FnAbs, expr.FnRe, expr.FnIm, expr.FnArg, expr.FnSign,
	expr.FnFloor, expr.FnConjugate, expr.FnSin, expr.FnCos, expr.FnAtan2,
}

func (p *KitchenSinkPool) RandomFunc(rng *rand.Rand) (expr.FuncKind, bool) {
	return pick(rng, kitchenSinkFuncs), true
}

func (p *KitchenSinkPool) RandomTree(rng *rand.Rand, maxDepth int) *Tree {
	return randomTree(p, rng, maxDepth)
}
