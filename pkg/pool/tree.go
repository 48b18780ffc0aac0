package pool

import (
	"strings"

	"github.com/wildfunctions/symbolic_power/pkg/expr"
)

// Op identifies the constructor applied at a Tree node.
type Op int

const (
	OpLeaf Op = iota
	OpAdd
	OpMul
	OpPow
	OpFunc
)

var opNames = [...]string{"leaf", "add", "mul", "pow", "func"}

func (o Op) String() string { return opNames[o] }

// Tree records how an expression was put together: the constructor calls
// in order, before any canonicalization. Build replays them through the
// canonical constructors; Eval evaluates them literally.
type Tree struct {
	Op   Op
	Fn   expr.FuncKind
	Leaf expr.Expr
	Args []*Tree
}

// Leaf wraps an atom or any prebuilt expression.
func Leaf(e expr.Expr) *Tree { return &Tree{Op: OpLeaf, Leaf: e} }

// Build constructs the canonical expression.
func (t *Tree) Build() expr.Expr {
	if t.Op == OpLeaf {
		return t.Leaf
	}
	args := make([]expr.Expr, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Build()
	}
	switch t.Op {
	case OpAdd:
		return expr.NewAdd(args...)
	case OpMul:
		return expr.NewMul(args...)
	case OpPow:
		return expr.NewPow(args[0], args[1])
	default:
		return expr.NewFunc(t.Fn, args...)
	}
}

// Operands for literal evaluation. Plain symbols block every rewrite, so
// an unevaluated power or a function of them is evaluated exactly as
// written.
var (
	lhs = expr.Sym("pool_lhs")
	rhs = expr.Sym("pool_rhs")
)

// Eval evaluates the recorded construction without canonicalization,
// using principal branches throughout.
func (t *Tree) Eval(subs map[*expr.Symbol]complex128) (complex128, bool) {
	if t.Op == OpLeaf {
		return expr.EvalComplex128(t.Leaf, subs)
	}
	vals := make([]complex128, len(t.Args))
	for i, a := range t.Args {
		v, ok := a.Eval(subs)
		if !ok {
			return 0, false
		}
		vals[i] = v
	}
	switch t.Op {
	case OpAdd:
		var sum complex128
		for _, v := range vals {
			sum += v
		}
		return sum, true
	case OpMul:
		prod := complex(1, 0)
		for _, v := range vals {
			prod *= v
		}
		return prod, true
	case OpPow:
		return expr.EvalComplex128(expr.NewPowUnevaluated(lhs, rhs), map[*expr.Symbol]complex128{lhs: vals[0], rhs: vals[1]})
	}
	ops := map[*expr.Symbol]complex128{lhs: vals[0]}
	if len(vals) == 1 {
		return expr.EvalComplex128(expr.NewFunc(t.Fn, lhs), ops)
	}
	ops[rhs] = vals[1]
	return expr.EvalComplex128(expr.NewFunc(t.Fn, lhs, rhs), ops)
}

// Clone returns a deep copy. Leaves share their expressions, which are
// immutable.
func (t *Tree) Clone() *Tree {
	c := *t
	if t.Args != nil {
		c.Args = make([]*Tree, len(t.Args))
		for i, a := range t.Args {
			c.Args[i] = a.Clone()
		}
	}
	return &c
}

// Slots returns pointers to every node slot under root in pre-order,
// root first. Assigning through a slot replaces that subtree.
func Slots(root **Tree) []**Tree {
	out := []**Tree{root}
	for i := range (*root).Args {
		out = append(out, Slots(&(*root).Args[i])...)
	}
	return out
}

// Size returns the number of nodes.
func (t *Tree) Size() int {
	n := 1
	for _, a := range t.Args {
		n += a.Size()
	}
	return n
}

// String renders the construction with explicit calls.
func (t *Tree) String() string {
	if t.Op == OpLeaf {
		return t.Leaf.String()
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	name := t.Op.String()
	if t.Op == OpFunc {
		name = t.Fn.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
