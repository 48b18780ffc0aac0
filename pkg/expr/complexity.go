package expr

import (
	"math"
	"math/big"
)

// Count returns the number of nodes in the tree of e, counting shared
// subtrees at every occurrence.
func Count(e Expr) int {
	n := 1
	for _, a := range e.Args() {
		n += Count(a)
	}
	return n
}

// Depth returns the height of the tree of e. Atoms have depth 1.
func Depth(e Expr) int {
	d := 0
	for _, a := range e.Args() {
		if ad := Depth(a); ad > d {
			d = ad
		}
	}
	return 1 + d
}

// WeightedComplexity returns a complexity score with heavier weight for
// powers, functions and large rationals.
func WeightedComplexity(e Expr) float64 {
	var w float64
	switch x := e.(type) {
	case *Number:
		return numberWeight(x)
	case *Constant, *Symbol:
		return 1.0
	case *Add:
		w = 1.0
	case *Mul:
		w = 1.5
	case *Pow:
		w = 2.0
	case *Func:
		w = funcWeight(x.fn)
	}
	for _, a := range e.Args() {
		w += WeightedComplexity(a)
	}
	return w
}

func numberWeight(n *Number) float64 {
	w := 1.0
	for _, v := range []*big.Int{n.val.Num(), n.val.Denom()} {
		if bits := v.BitLen(); bits > 3 {
			w += float64(bits) * math.Log10(2)
		}
	}
	return w
}

func funcWeight(fn FuncKind) float64 {
	switch fn {
	case FnAbs, FnSign, FnConjugate:
		return 1.0
	case FnRe, FnIm, FnFloor:
		return 2.0
	case FnLog, FnArg, FnSin, FnCos, FnAtan2:
		return 3.0
	default:
		return 2.0
	}
}
