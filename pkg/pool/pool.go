package pool

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/wildfunctions/symbolic_power/pkg/expr"
)

// ErrUnknownPool is returned by Get for an unregistered name.
var ErrUnknownPool = errors.New("unknown pool")

// Pool provides random building blocks for constructing expression trees.
type Pool interface {
	Name() string
	// Symbols lists every symbol the pool's leaves may contain.
	Symbols() []*expr.Symbol
	RandomLeaf(rng *rand.Rand) expr.Expr
	RandomExponent(rng *rand.Rand) expr.Expr
	RandomOp(rng *rand.Rand) Op
	// RandomFunc returns false when the pool has no functions.
	RandomFunc(rng *rand.Rand) (expr.FuncKind, bool)
	RandomTree(rng *rand.Rand, maxDepth int) *Tree
}

var registry = map[string]func() Pool{}

// Register adds a pool constructor to the registry.
func Register(name string, constructor func() Pool) {
	registry[name] = constructor
}

// Get returns a pool by name.
func Get(name string) (Pool, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPool, "%q (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names returns all registered pool names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// randomTree is a shared helper for building random trees.
func randomTree(p Pool, rng *rand.Rand, maxDepth int) *Tree {
	if maxDepth <= 1 {
		return Leaf(p.RandomLeaf(rng))
	}
	// Bias toward leaves at shallow depths to keep trees small
	r := rng.Float64()
	switch {
	case r < 0.3:
		return Leaf(p.RandomLeaf(rng))
	case r < 0.45:
		if fn, ok := p.RandomFunc(rng); ok {
			args := make([]*Tree, fn.Arity())
			for i := range args {
				args[i] = randomTree(p, rng, maxDepth-1)
			}
			return &Tree{Op: OpFunc, Fn: fn, Args: args}
		}
	}
	op := p.RandomOp(rng)
	if op == OpPow {
		exp := Leaf(p.RandomExponent(rng))
		if rng.Float64() < 0.25 {
			exp = randomTree(p, rng, maxDepth-1)
		}
		return &Tree{Op: OpPow, Args: []*Tree{randomTree(p, rng, maxDepth-1), exp}}
	}
	return &Tree{Op: op, Args: []*Tree{
		randomTree(p, rng, maxDepth-1),
		randomTree(p, rng, maxDepth-1),
	}}
}

func pick[T any](rng *rand.Rand, xs []T) T {
	return xs[rng.Intn(len(xs))]
}

func smallInt(rng *rand.Rand, lo, hi int) expr.Expr {
	return expr.NewInt(int64(lo + rng.Intn(hi-lo+1)))
}
