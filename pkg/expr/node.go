// Package expr implements symbolic powers over a small algebra of exact
// rationals, named constants, symbols, sums, products and elementary
// functions.
//
// Nodes are immutable and hash-consed: two structurally equal expressions
// are the same pointer, so == is structural equality. Every constructor
// returns a node in canonical form unless its name says otherwise.
package expr

import (
	"math/big"
	"sync/atomic"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
	"github.com/wildfunctions/symbolic_power/pkg/logic"
)

// Kind identifies the concrete node type. The order doubles as the first
// sort key of Add and Mul arguments.
type Kind uint8

const (
	KindNumber Kind = iota
	KindConstant
	KindSymbol
	KindFunc
	KindPow
	KindMul
	KindAdd
)

var kindNames = [...]string{
	KindNumber:   "Number",
	KindConstant: "Constant",
	KindSymbol:   "Symbol",
	KindFunc:     "Func",
	KindPow:      "Pow",
	KindMul:      "Mul",
	KindAdd:      "Add",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Expr is the interface for all expression nodes. The set of
// implementations is closed.
type Expr interface {
	Kind() Kind
	// Args returns the children. The slice must not be modified.
	Args() []Expr
	// Is answers a three-valued property question.
	Is(p assume.Property) logic.Tri
	// Facts returns the full, deductively closed fact table.
	Facts() assume.Facts
	String() string
	hdr() *header
}

// header is embedded in every node.
type header struct {
	id    uint64
	key   string
	str   string
	args  []Expr
	free  bool // some descendant is a Symbol
	self  Expr
	facts atomic.Pointer[assume.Facts]
}

func (h *header) hdr() *header { return h }
func (h *header) Args() []Expr { return h.args }
func (h *header) String() string { return h.str }

func (h *header) Is(p assume.Property) logic.Tri { return h.Facts()[p] }

// Facts computes the table on first use. Concurrent first calls may both
// compute it; the results are identical.
func (h *header) Facts() assume.Facts {
	if f := h.facts.Load(); f != nil {
		return *f
	}
	f := computeFacts(h.self)
	h.facts.Store(&f)
	return f
}

func anyFree(args []Expr) bool {
	for _, a := range args {
		if a.hdr().free {
			return true
		}
	}
	return false
}

// Number is an exact rational.
type Number struct {
	header
	val big.Rat
}

func (*Number) Kind() Kind { return KindNumber }

// Rat returns a copy of the value.
func (n *Number) Rat() *big.Rat { return new(big.Rat).Set(&n.val) }

// Num returns a copy of the numerator.
func (n *Number) Num() *big.Int { return new(big.Int).Set(n.val.Num()) }

// Den returns a copy of the (positive) denominator.
func (n *Number) Den() *big.Int { return new(big.Int).Set(n.val.Denom()) }

func (n *Number) IsInt() bool { return n.val.IsInt() }
func (n *Number) Sign() int { return n.val.Sign() }

// Int64 returns the value when it is an integer that fits in an int64.
func (n *Number) Int64() (int64, bool) {
	if !n.val.IsInt() || !n.val.Num().IsInt64() {
		return 0, false
	}
	return n.val.Num().Int64(), true
}

// Constant is a named singleton: oo, -oo, zoo, nan, I, pi or E.
type Constant struct {
	header
	name string
}

func (*Constant) Kind() Kind { return KindConstant }
func (c *Constant) Name() string { return c.name }

// Symbol is a named unknown carrying declared assumptions.
type Symbol struct {
	header
	name     string
	declared assume.Facts
}

func (*Symbol) Kind() Kind { return KindSymbol }
func (s *Symbol) Name() string { return s.name }

// Add is a canonical sum. A rational coefficient, if any, comes first.
type Add struct{ header }

func (*Add) Kind() Kind { return KindAdd }

// Mul is a canonical product. A rational coefficient, if any, comes first.
type Mul struct{ header }

func (*Mul) Kind() Kind { return KindMul }

// Pow is base**exp.
type Pow struct{ header }

func (*Pow) Kind() Kind { return KindPow }
func (p *Pow) Base() Expr { return p.args[0] }
func (p *Pow) Exp() Expr { return p.args[1] }

// FuncKind identifies an elementary function.
type FuncKind uint8

const (
	FnLog FuncKind = iota
	FnAbs
	FnRe
	FnIm
	FnArg
	FnSign
	FnFloor
	FnConjugate
	FnSin
	FnCos
	FnAtan2
	FnOrder
)

var funcNames = [...]string{
	FnLog:       "log",
	FnAbs:       "Abs",
	FnRe:        "re",
	FnIm:        "im",
	FnArg:       "arg",
	FnSign:      "sign",
	FnFloor:     "floor",
	FnConjugate: "conjugate",
	FnSin:       "sin",
	FnCos:       "cos",
	FnAtan2:     "atan2",
	FnOrder:     "O",
}

func (f FuncKind) String() string {
	if int(f) < len(funcNames) {
		return funcNames[f]
	}
	return "fn?"
}

// Func applies an elementary function to its arguments.
type Func struct {
	header
	fn FuncKind
}

func (*Func) Kind() Kind { return KindFunc }
func (f *Func) Fn() FuncKind { return f.fn }
func (f *Func) Arg() Expr { return f.args[0] }
