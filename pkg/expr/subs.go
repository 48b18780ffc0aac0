package expr

import (
	"math"
	"math/big"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
)

// rebuild constructs a node of the same shape as e over new arguments,
// through the canonical constructors.
func rebuild(e Expr, args []Expr) Expr {
	switch x := e.(type) {
	case *Add:
		return NewAdd(args...)
	case *Mul:
		return NewMul(args...)
	case *Pow:
		return NewPow(args[0], args[1])
	case *Func:
		return NewFunc(x.fn, args...)
	}
	return e
}

// rewrite maps a tree bottom-up with an explicit stack. pre may replace
// a node before its children are visited; post sees every rebuilt node.
// Shared subtrees are processed once.
func rewrite(root Expr, pre func(Expr) (Expr, bool), post func(Expr) Expr) Expr {
	type frame struct {
		e        Expr
		expanded bool
	}
	done := make(map[Expr]Expr)
	stack := []frame{{e: root}}
	for len(stack) > 0 {
		top := len(stack) - 1
		e := stack[top].e
		if _, ok := done[e]; ok {
			stack = stack[:top]
			continue
		}
		if !stack[top].expanded {
			if pre != nil {
				if r, ok := pre(e); ok {
					done[e] = r
					stack = stack[:top]
					continue
				}
			}
			stack[top].expanded = true
			for _, a := range e.Args() {
				if _, ok := done[a]; !ok {
					stack = append(stack, frame{e: a})
				}
			}
			continue
		}
		stack = stack[:top]
		args := e.Args()
		n := e
		if len(args) > 0 {
			next := make([]Expr, len(args))
			changed := false
			for i, a := range args {
				next[i] = done[a]
				if next[i] != a {
					changed = true
				}
			}
			if changed {
				n = rebuild(e, next)
			}
		}
		if post != nil {
			n = post(n)
		}
		done[e] = n
	}
	return done[root]
}

// Transform applies f to every node bottom-up and rebuilds the tree.
func Transform(e Expr, f func(Expr) Expr) Expr {
	return rewrite(e, nil, f)
}

// walk visits every distinct node of e once, parents first. Returning
// false from visit stops the walk.
func walk(e Expr, visit func(Expr) bool) {
	seen := make(map[Expr]bool)
	stack := []Expr{e}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		if !visit(n) {
			return
		}
		args := n.Args()
		for i := len(args) - 1; i >= 0; i-- {
			stack = append(stack, args[i])
		}
	}
}

// Subs replaces old by new in e. Besides exact matches it rewrites
// powers of old, b**(k*x) -> new**k for old = b**x, when the nested
// power recombines without a branch correction, and sub-sums and
// sub-products matching old.
func Subs(e, old, new Expr) Expr {
	if old == new {
		return e
	}
	pre := func(n Expr) (Expr, bool) {
		if n == old {
			return new, true
		}
		return nil, false
	}
	post := func(n Expr) Expr {
		if n == old {
			return new
		}
		switch x := n.(type) {
		case *Pow:
			if r := powSubs(x, old, new); r != nil {
				return r
			}
		case *Add:
			if r := partialSubs(x.args, old, new, KindAdd); r != nil {
				return r
			}
		case *Mul:
			if r := partialSubs(x.args, old, new, KindMul); r != nil {
				return r
			}
		}
		return n
	}
	return rewrite(e, pre, post)
}

// SubsMap applies Subs for each pair in order.
func SubsMap(e Expr, pairs [][2]Expr) Expr {
	for _, p := range pairs {
		e = Subs(e, p[0], p[1])
	}
	return e
}

// partialSubs replaces the arguments of old found among the arguments
// of a node of the same kind, x + y + z with old = x + y giving new + z.
func partialSubs(args []Expr, old, new Expr, kind Kind) Expr {
	if old.Kind() != kind {
		return nil
	}
	want := old.Args()
	if len(want) >= len(args) {
		return nil
	}
	rest := append([]Expr(nil), args...)
	for _, w := range want {
		i := indexOf(rest, w)
		if i < 0 {
			return nil
		}
		rest = append(rest[:i], rest[i+1:]...)
	}
	rest = append(rest, new)
	if kind == KindAdd {
		return NewAdd(rest...)
	}
	return NewMul(rest...)
}

func indexOf(xs []Expr, x Expr) int {
	for i, y := range xs {
		if y == x {
			return i
		}
	}
	return -1
}

// independent splits e into its symbol-free factors and the rest.
func independent(e Expr) (Expr, Expr) {
	var c, t []Expr
	for _, f := range MulArgs(e) {
		if f.hdr().free {
			t = append(t, f)
		} else {
			c = append(c, f)
		}
	}
	return NewMul(c...), NewMul(t...)
}

// checkCombine compares exponent splits (c1, t1) of the target and
// (c2, t2) of old and returns the power k with target == old**k.
func checkCombine(c1, t1, c2, t2 Expr, old *Pow) (Expr, bool) {
	if t1 != t2 {
		return nil, false
	}
	k := Quo(c1, c2)
	if !combinable(old, k) {
		return nil, false
	}
	return k, true
}

func powSubs(p *Pow, old, new Expr) Expr {
	b, x := p.args[0], p.args[1]
	op, ok := old.(*Pow)
	if !ok {
		return nil
	}
	ob, ox := op.args[0], op.args[1]

	// (4**x).subs(2**x, y) = y**2
	if x == ox {
		if l, ok := logRatio(b, ob); ok {
			return NewPow(new, l)
		}
	}

	if b == ob {
		if a, ok := x.(*Add); ok {
			// b**(6*x + a).subs(b**(3*x), y) = y**2 * b**a
			c2, t2 := independent(ox)
			var news, kept []Expr
			for _, t := range a.args {
				c1, t1 := independent(t)
				if k, ok := checkCombine(c1, t1, c2, t2, op); ok {
					news = append(news, NewPow(new, k))
					continue
				}
				kept = append(kept, t)
			}
			if len(news) > 0 {
				return NewMul(append(news, NewPow(b, NewAdd(kept...)))...)
			}
		} else {
			c1, t1 := independent(x)
			c2, t2 := independent(ox)
			if k, ok := checkCombine(c1, t1, c2, t2, op); ok {
				return NewPow(new, k)
			}
		}
	}

	// (2**x).subs(exp(x*log(2)), z) = z
	if ob == E && holds(x, assume.ExtendedReal) && holds(b, assume.Positive) {
		c1, t1 := independent(NewMul(x, Log(b)))
		c2, t2 := independent(ox)
		if k, ok := checkCombine(c1, t1, c2, t2, op); ok {
			return NewPow(new, k)
		}
	}
	return nil
}

// logRatio returns log(a)/log(b) for positive integers when it is an
// exact rational with a small denominator.
func logRatio(a, b Expr) (*Number, bool) {
	an, ok1 := a.(*Number)
	bn, ok2 := b.(*Number)
	if !ok1 || !ok2 || !an.IsInt() || !bn.IsInt() || an.Sign() <= 0 || bn.Sign() <= 0 {
		return nil, false
	}
	ai, bi := an.val.Num(), bn.val.Num()
	if ai.Cmp(big.NewInt(1)) == 0 || bi.Cmp(big.NewInt(1)) == 0 || ai.BitLen() > 1024 || bi.BitLen() > 1024 {
		return nil, false
	}
	af, _ := new(big.Float).SetInt(ai).Float64()
	bf, _ := new(big.Float).SetInt(bi).Float64()
	r := math.Log(af) / math.Log(bf)
	// a**q == b**p for the best p/q with q <= 64
	for q := int64(1); q <= 64; q++ {
		p := int64(math.Round(r * float64(q)))
		if p <= 0 || math.Abs(r*float64(q)-float64(p)) > 1e-6 {
			continue
		}
		lhs := new(big.Int).Exp(ai, big.NewInt(q), nil)
		rhs := new(big.Int).Exp(bi, big.NewInt(p), nil)
		if lhs.Cmp(rhs) == 0 {
			return NewRat(p, q), true
		}
		break
	}
	return nil, false
}
