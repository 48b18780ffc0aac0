package shrink

import (
	"math/big"
	"math/rand"

	"github.com/wildfunctions/symbolic_power/pkg/expr"
	"github.com/wildfunctions/symbolic_power/pkg/pool"
)

// MutationType identifies a kind of simplifying move.
type MutationType int

const (
	MutHoist        MutationType = iota // replace the tree with one of its subtrees
	MutShrink                           // replace a node with one of its children
	MutLeaf                             // replace a subtree with a pool leaf
	MutConstPerturb                     // move a rational leaf toward zero
	numMutations
)

// mutate applies a random move to a clone of root.
func mutate(root *pool.Tree, p pool.Pool, rng *rand.Rand) *pool.Tree {
	c := root.Clone()
	switch MutationType(rng.Intn(int(numMutations))) {
	case MutHoist:
		slots := pool.Slots(&c)
		return (*slots[rng.Intn(len(slots))]).Clone()
	case MutShrink:
		shrinkMutate(c, rng)
	case MutLeaf:
		slots := pool.Slots(&c)
		*slots[rng.Intn(len(slots))] = pool.Leaf(p.RandomLeaf(rng))
	case MutConstPerturb:
		constPerturb(c, rng)
	}
	return c
}

// shrinkMutate replaces a random interior node with one of its children.
func shrinkMutate(root *pool.Tree, rng *rand.Rand) {
	var inner []**pool.Tree
	for _, s := range pool.Slots(&root) {
		if len((*s).Args) > 0 {
			inner = append(inner, s)
		}
	}
	if len(inner) == 0 {
		return
	}
	s := inner[rng.Intn(len(inner))]
	*s = (*s).Args[rng.Intn(len((*s).Args))]
}

// constPerturb replaces a random rational leaf by a smaller one.
func constPerturb(root *pool.Tree, rng *rand.Rand) {
	var nums []**pool.Tree
	for _, s := range pool.Slots(&root) {
		if n, ok := (*s).Leaf.(*expr.Number); ok && n.Sign() != 0 {
			nums = append(nums, s)
		}
	}
	if len(nums) == 0 {
		return
	}
	s := nums[rng.Intn(len(nums))]
	if smaller := smallerNumbers((*s).Leaf.(*expr.Number)); len(smaller) > 0 {
		*s = pool.Leaf(smaller[rng.Intn(len(smaller))])
	}
}

// smallerNumbers lists simpler rationals to try in place of n: zero, the
// unit with n's sign, the integer part and the numerator. n itself and
// repeats are left out.
func smallerNumbers(n *expr.Number) []expr.Expr {
	cands := []expr.Expr{expr.Zero, expr.NewInt(int64(n.Sign()))}
	if !n.IsInt() {
		q := new(big.Int).Quo(n.Num(), n.Den())
		cands = append(cands, expr.NewBigInt(q), expr.NewBigInt(n.Num()))
	} else if n.Num().CmpAbs(big.NewInt(1)) > 0 {
		cands = append(cands, expr.NewBigInt(new(big.Int).Quo(n.Num(), big.NewInt(2))))
	}
	var out []expr.Expr
	seen := map[expr.Expr]bool{n: true}
	for _, c := range cands {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// neighbours enumerates every single-step simplification of root:
// each interior node replaced by each child, and each rational leaf
// replaced by a smaller one.
func neighbours(root *pool.Tree) []*pool.Tree {
	var out []*pool.Tree
	for i, slot := range pool.Slots(&root) {
		node := *slot
		if len(node.Args) > 0 {
			for j := range node.Args {
				c := root.Clone()
				s := pool.Slots(&c)[i]
				*s = (*s).Args[j]
				out = append(out, c)
			}
			continue
		}
		num, ok := node.Leaf.(*expr.Number)
		if !ok || num.Sign() == 0 {
			continue
		}
		for _, m := range smallerNumbers(num) {
			c := root.Clone()
			*pool.Slots(&c)[i] = pool.Leaf(m)
			out = append(out, c)
		}
	}
	return out
}
