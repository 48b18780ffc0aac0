package pool

import (
	"math/rand"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
	"github.com/wildfunctions/symbolic_power/pkg/expr"
)

func init() {
	Register("moderate", func() Pool { return &ModeratePool{} })
}

// ModeratePool extends conservative with symbols carrying assumptions,
// rationals and the imaginary unit as leaves, and fractional or symbolic
// exponents.
type ModeratePool struct{}

var (
	symP = expr.Sym("p", assume.Positive)
	symQ = expr.Sym("q", assume.Negative)
	symR = expr.Sym("r", assume.Real)
	symN = expr.Sym("n", assume.Integer)
)

func (p *ModeratePool) Name() string { return "moderate" }

func (p *ModeratePool) Symbols() []*expr.Symbol {
	return []*expr.Symbol{symX, symP, symQ, symR, symN}
}

func (p *ModeratePool) RandomLeaf(rng *rand.Rand) expr.Expr {
	r := rng.Float64()
	switch {
	case r < 0.45:
		return pick(rng, p.Symbols())
	case r < 0.75:
		return smallInt(rng, -4, 6)
	case r < 0.9:
		// rationals with denominators 2..4
		return expr.NewRat(int64(rng.Intn(9)-4), int64(rng.Intn(3)+2))
	default:
		return expr.I
	}
}

var moderateExps = []expr.Expr{
	expr.NegativeOne, expr.Two, expr.NewInt(3), expr.NewInt(-3),
	expr.Half, expr.NewRat(-1, 2), expr.NewRat(1, 3), expr.NewRat(2, 3), expr.NewRat(3, 2),
	symN, symR, expr.NewMul(expr.Two, symN), expr.NewAdd(symN, expr.Half),
}

func (p *ModeratePool) RandomExponent(rng *rand.Rand) expr.Expr {
	return pick(rng, moderateExps)
}

var moderateOps = []Op{OpAdd, OpMul, OpPow, OpPow}

func (p *ModeratePool) RandomOp(rng *rand.Rand) Op {
	return pick(rng, moderateOps)
}

func (p *ModeratePool) RandomFunc(*rand.Rand) (expr.FuncKind, bool) { return 0, false }

func (p *ModeratePool) RandomTree(rng *rand.Rand, maxDepth int) *Tree {
	return randomTree(p, rng, maxDepth)
}
