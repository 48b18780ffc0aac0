// Package shrink reduces a failing sample tree to a smaller tree that
// still fails.
package shrink

import (
	"math/rand"

	"github.com/wildfunctions/symbolic_power/pkg/expr"
	"github.com/wildfunctions/symbolic_power/pkg/pool"
)

const (
	maxGreedyRounds = 64
	randomAttempts  = 200
)

// Score orders trees by how small their counterexample is; lower is
// simpler.
func Score(t *pool.Tree) float64 {
	return float64(t.Size()) + expr.WeightedComplexity(t.Build())
}

// Minimize hill-climbs from root toward simpler trees for which fails
// still holds. It first tries every single-step simplification greedily,
// then a fixed budget of random pool mutations. root itself must fail.
func Minimize(root *pool.Tree, p pool.Pool, rng *rand.Rand, fails func(*pool.Tree) bool) *pool.Tree {
	best, bestScore := root, Score(root)

	for round := 0; round < maxGreedyRounds; round++ {
		improved := false
		for _, c := range neighbours(best) {
			if s := Score(c); s < bestScore && fails(c) {
				best, bestScore = c, s
				improved = true
				break
			}
		}
		if !improved {
			break
		}
	}

	for i := 0; i < randomAttempts; i++ {
		c := mutate(best, p, rng)
		if s := Score(c); s < bestScore && fails(c) {
			best, bestScore = c, s
		}
	}
	return best
}
