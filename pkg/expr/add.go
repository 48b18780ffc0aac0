package expr

import "github.com/wildfunctions/symbolic_power/pkg/assume"

// NewAdd returns the canonical sum of args: nested sums are flattened,
// numbers are summed and like terms are collected.
func NewAdd(args ...Expr) Expr {
	switch len(args) {
	case 0:
		return Zero
	case 1:
		return args[0]
	}
	args = append([]Expr(nil), args...)
	return memoized(opKey("A", args...), func() Expr { return buildAdd(args) })
}

type termGroup struct {
	rest  Expr
	coeff *Number
	first Expr
	n     int
}

func buildAdd(args []Expr) Expr {
	var terms []Expr
	for _, a := range args {
		terms = append(terms, AddArgs(a)...)
	}

	coeff := Zero
	var posInf, negInf, cInf bool
	groups := make(map[Expr]*termGroup)
	var order []*termGroup
	for _, t := range terms {
		switch t {
		case NaN:
			return NaN
		case Infinity:
			posInf = true
			continue
		case NegativeInfinity:
			negInf = true
			continue
		case ComplexInfinity:
			cInf = true
			continue
		}
		if n, ok := t.(*Number); ok {
			coeff = numAdd(coeff, n)
			continue
		}
		c, rest := splitCoeff(t)
		g := groups[rest]
		if g == nil {
			g = &termGroup{rest: rest, coeff: Zero, first: t}
			groups[rest] = g
			order = append(order, g)
		}
		g.coeff = numAdd(g.coeff, c)
		g.n++
	}
	if (posInf && negInf) || (cInf && (posInf || negInf)) {
		return NaN
	}

	var out []Expr
	for _, g := range order {
		if g.coeff.Sign() == 0 {
			continue
		}
		t := g.first
		if g.n > 1 {
			t = NewMul(g.coeff, g.rest)
		}
		if n, ok := t.(*Number); ok {
			coeff = numAdd(coeff, n)
			continue
		}
		out = append(out, t)
	}

	switch {
	case posInf || negInf:
		out = dropTerms(out, assume.Real)
		if posInf {
			out = append(out, Infinity)
		} else {
			out = append(out, NegativeInfinity)
		}
	case cInf:
		out = dropTerms(out, assume.Finite)
		out = append(out, ComplexInfinity)
	case coeff.Sign() != 0:
		out = append(out, coeff)
	}
	if len(out) == 0 {
		return Zero
	}
	sortArgs(out)
	return newAddRaw(out)
}

// splitCoeff separates the rational coefficient of a term.
func splitCoeff(t Expr) (*Number, Expr) {
	if m, ok := t.(*Mul); ok {
		if c, ok := m.args[0].(*Number); ok {
			return c, newMulRaw(m.args[1:])
		}
	}
	return One, t
}

// dropTerms removes terms known to have property p; they are absorbed by
// an infinite term.
func dropTerms(terms []Expr, p assume.Property) []Expr {
	out := terms[:0]
	for _, t := range terms {
		if !t.Is(p).IsTrue() {
			out = append(out, t)
		}
	}
	return out
}
